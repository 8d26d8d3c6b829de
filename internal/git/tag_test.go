package git

import (
	"context"
	"testing"
)

func TestTagLifecycle(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, dir, "a.txt", "a\n")
	commitAll(t, dir, "initial")

	exists, err := svc.TagExists(ctx, dir, "v1.0.0")
	if err != nil || exists {
		t.Errorf("expected tag absent, got %v %v", exists, err)
	}

	if err := svc.CreateAnnotatedTag(ctx, dir, "v1.0.0", "release 1.0.0"); err != nil {
		t.Fatalf("create tag: %v", err)
	}

	exists, err = svc.TagExists(ctx, dir, "v1.0.0")
	if err != nil || !exists {
		t.Errorf("expected tag present, got %v %v", exists, err)
	}

	tags, err := svc.ListTags(ctx, dir)
	if err != nil {
		t.Fatalf("list tags: %v", err)
	}
	if len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("unexpected tags: %v", tags)
	}

	err = svc.CreateAnnotatedTag(ctx, dir, "v1.0.0", "again")
	if !IsKind(err, KindTagExists) {
		t.Errorf("expected tag-exists, got %v", err)
	}
}

func TestCreateAnnotatedTagDefaultMessage(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)

	createFile(t, dir, "a.txt", "a\n")
	commitAll(t, dir, "initial")

	if err := svc.CreateAnnotatedTag(context.Background(), dir, "v2.0.0", ""); err != nil {
		t.Fatalf("create tag: %v", err)
	}
}

func TestTagValidation(t *testing.T) {
	dir := testRepo(t)
	svc := newTestService(t)
	ctx := context.Background()

	if _, err := svc.TagExists(ctx, dir, " "); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := svc.CreateAnnotatedTag(ctx, dir, "", "m"); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if err := svc.PushTag(ctx, dir, "origin", ""); !IsKind(err, KindValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestPushTagToLocalRemote(t *testing.T) {
	upstream := testRepo(t)
	gitCmd(t, upstream, "config", "receive.denyCurrentBranch", "ignore")
	svc := newTestService(t)
	ctx := context.Background()

	createFile(t, upstream, "a.txt", "a\n")
	commitAll(t, upstream, "initial")

	clone := t.TempDir()
	gitCmd(t, clone, "clone", upstream, "work")
	work := clone + "/work"

	if err := svc.CreateAnnotatedTag(ctx, work, "v1.0.0", "release"); err != nil {
		t.Fatalf("create tag: %v", err)
	}
	if err := svc.PushTag(ctx, work, "origin", "v1.0.0"); err != nil {
		t.Fatalf("push tag: %v", err)
	}

	tags, err := svc.ListTags(ctx, upstream)
	if err != nil {
		t.Fatalf("list upstream tags: %v", err)
	}
	if len(tags) != 1 || tags[0] != "v1.0.0" {
		t.Errorf("expected tag on upstream, got %v", tags)
	}
}

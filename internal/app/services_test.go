package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/lingua-backend/internal/data/content"
	"github.com/yungbote/lingua-backend/internal/data/repos/testutil"
)

func writeLessons(t *testing.T, module string) string {
	t.Helper()
	dir := t.TempDir()
	doc := fmt.Sprintf(`lessons:
  - ref: %[1]s.l1
    order: 1
    title: Greetings
    tasks:
      - ref: t1
        type: choice
        public:
          options: [Hello, Bye]
        validation:
          correctIndex: 0
`, module)
	if err := os.WriteFile(filepath.Join(dir, "m1.yaml"), []byte(doc), 0o600); err != nil {
		t.Fatalf("write content: %v", err)
	}
	return dir
}

func TestWireContentServesFilesFromMemory(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	module := testutil.UniqueModule()
	cfg := Config{ContentDir: writeLessons(t, module)}

	src, err := wireContent(context.Background(), log, cfg, wireRepos(db, log), Clients{})
	if err != nil {
		t.Fatalf("wireContent: %v", err)
	}
	if _, ok := src.(*content.FileSource); !ok {
		t.Fatalf("expected file source, got %T", src)
	}
	l, err := src.GetLessonByRef(context.Background(), module+".l1")
	if err != nil || l == nil || len(l.Tasks) != 1 {
		t.Fatalf("lesson from files: %+v err=%v", l, err)
	}
}

func TestWireContentImportsIntoDatabase(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	module := testutil.UniqueModule()
	cfg := Config{ContentDir: writeLessons(t, module), ContentImport: true}
	reposet := wireRepos(db, log)

	for i := 0; i < 2; i++ {
		src, err := wireContent(context.Background(), log, cfg, reposet, Clients{})
		if err != nil {
			t.Fatalf("wireContent run %d: %v", i, err)
		}
		if _, ok := src.(*content.FileSource); ok {
			t.Fatalf("import mode must serve from the database")
		}
		l, err := src.GetLessonByModuleAndOrder(context.Background(), module, 1)
		if err != nil || l == nil || l.Ref != module+".l1" || len(l.Tasks) != 1 {
			t.Fatalf("imported lesson run %d: %+v err=%v", i, l, err)
		}
	}
}

func TestWireContentMissingDirFails(t *testing.T) {
	db := testutil.DB(t)
	log := testutil.Logger(t)
	cfg := Config{ContentDir: filepath.Join(t.TempDir(), "absent")}
	if _, err := wireContent(context.Background(), log, cfg, wireRepos(db, log), Clients{}); err == nil {
		t.Fatalf("expected error for missing content dir")
	}
}

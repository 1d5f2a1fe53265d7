package content

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	types "github.com/yungbote/lingua-backend/internal/domain"
)

type fileDoc struct {
	Lessons []fileLesson `yaml:"lessons"`
}

type fileLesson struct {
	Ref       string     `yaml:"ref"`
	ModuleRef string     `yaml:"module"`
	Order     int        `yaml:"order"`
	Title     string     `yaml:"title"`
	Draft     bool       `yaml:"draft"`
	Tasks     []fileTask `yaml:"tasks"`
}

type fileTask struct {
	Ref        string         `yaml:"ref"`
	Type       string         `yaml:"type"`
	Public     map[string]any `yaml:"public"`
	Validation map[string]any `yaml:"validation"`
}

// FileSource serves lessons loaded once from YAML files.
type FileSource struct {
	byRef   map[string]*types.Lesson
	byOrder map[string]*types.Lesson
}

// LoadDir reads every *.yaml / *.yml file under dir.
func LoadDir(dir string) (*FileSource, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk content dir: %w", err)
	}
	sort.Strings(files)

	src := &FileSource{byRef: map[string]*types.Lesson{}, byOrder: map[string]*types.Lesson{}}
	for _, path := range files {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if err := src.add(raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return src, nil
}

// ParseYAML builds a FileSource from one YAML document.
func ParseYAML(raw []byte) (*FileSource, error) {
	src := &FileSource{byRef: map[string]*types.Lesson{}, byOrder: map[string]*types.Lesson{}}
	if err := src.add(raw); err != nil {
		return nil, err
	}
	return src, nil
}

func (s *FileSource) add(raw []byte) error {
	var doc fileDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	for _, fl := range doc.Lessons {
		ref := strings.TrimSpace(fl.Ref)
		if ref == "" {
			return fmt.Errorf("lesson without ref")
		}
		if _, dup := s.byRef[ref]; dup {
			return fmt.Errorf("duplicate lesson ref %q", ref)
		}
		l := &types.Lesson{
			ID:        uuid.NewSHA1(uuid.NameSpaceURL, []byte("lesson:"+ref)),
			Ref:       ref,
			ModuleRef: strings.TrimSpace(fl.ModuleRef),
			Order:     fl.Order,
			Title:     fl.Title,
			Published: !fl.Draft,
		}
		if l.ModuleRef == "" {
			l.ModuleRef = types.ModuleRefOf(ref)
		}
		for i, ft := range fl.Tasks {
			if strings.TrimSpace(ft.Ref) == "" {
				return fmt.Errorf("lesson %q: task %d without ref", ref, i)
			}
			t := &types.LessonTask{
				ID:       uuid.NewSHA1(uuid.NameSpaceURL, []byte("task:"+ref+"/"+ft.Ref)),
				LessonID: l.ID,
				Position: i,
				Ref:      strings.TrimSpace(ft.Ref),
				Type:     strings.TrimSpace(ft.Type),
			}
			var err error
			if t.PublicData, err = toJSON(ft.Public); err != nil {
				return fmt.Errorf("lesson %q task %q public: %w", ref, ft.Ref, err)
			}
			if t.ValidationData, err = toJSON(ft.Validation); err != nil {
				return fmt.Errorf("lesson %q task %q validation: %w", ref, ft.Ref, err)
			}
			l.Tasks = append(l.Tasks, t)
		}
		s.byRef[ref] = l
		if l.Published {
			s.byOrder[orderKey(l.ModuleRef, l.Order)] = l
		}
	}
	return nil
}

func toJSON(m map[string]any) (datatypes.JSON, error) {
	if len(m) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

func orderKey(moduleRef string, order int) string {
	return fmt.Sprintf("%s#%d", moduleRef, order)
}

func (s *FileSource) GetLessonByRef(_ context.Context, ref string) (*types.Lesson, error) {
	l, ok := s.byRef[strings.TrimSpace(ref)]
	if !ok || !l.Published {
		return nil, nil
	}
	return l, nil
}

func (s *FileSource) GetLessonByModuleAndOrder(_ context.Context, moduleRef string, order int) (*types.Lesson, error) {
	l, ok := s.byOrder[orderKey(strings.TrimSpace(moduleRef), order)]
	if !ok {
		return nil, nil
	}
	return l, nil
}

// Lessons returns every loaded lesson ordered by ref.
func (s *FileSource) Lessons() []*types.Lesson {
	out := make([]*types.Lesson, 0, len(s.byRef))
	for _, l := range s.byRef {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ref < out[j].Ref })
	return out
}

package handler

import (
	"context"

	"github.com/typebind-dev/typebind/handler/entities"
	"github.com/typebind-dev/typebind/handler/values"
)

// MockTypeService implements ports.TypeService for testing.
type MockTypeService struct {
	TypesByExt map[string][]values.TypeID
	ExtsByType map[string][]values.Extension
	Parents    map[string][]string // child fold -> parent folds (direct edges)
	Err        error
}

func (m *MockTypeService) TypesForExtension(ctx context.Context, ext values.Extension) ([]values.TypeID, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.TypesByExt[ext.String()], nil
}

func (m *MockTypeService) ExtensionsForType(ctx context.Context, t values.TypeID) ([]values.Extension, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ExtsByType[t.Fold()], nil
}

func (m *MockTypeService) ConformsTo(ctx context.Context, child, parent values.TypeID) (bool, error) {
	if m.Err != nil {
		return false, m.Err
	}
	if child.Equals(parent) {
		return true, nil
	}
	visited := map[string]bool{}
	queue := []string{child.Fold()}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true
		for _, p := range m.Parents[cur] {
			if p == parent.Fold() {
				return true, nil
			}
			queue = append(queue, p)
		}
	}
	return false, nil
}

// MockBundleReader implements ports.BundleReader.
type MockBundleReader struct {
	Descriptors map[string]entities.Descriptor
	Decls       map[string][]entities.Declaration
	Schemes     map[string][]entities.SchemeDeclaration
	Err         error

	DescriptorCalls int
}

func (m *MockBundleReader) Descriptor(ctx context.Context, path string) (entities.Descriptor, error) {
	m.DescriptorCalls++
	if m.Err != nil {
		return entities.Descriptor{}, m.Err
	}
	d, ok := m.Descriptors[path]
	if !ok {
		return entities.Descriptor{}, &entities.NotFoundError{Kind: "application", Target: path}
	}
	return d, nil
}

func (m *MockBundleReader) Declarations(ctx context.Context, path string) ([]entities.Declaration, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.Descriptors[path]; !ok {
		return nil, &entities.NotFoundError{Kind: "application", Target: path}
	}
	return m.Decls[path], nil
}

func (m *MockBundleReader) SchemeDeclarations(ctx context.Context, path string) ([]entities.SchemeDeclaration, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if _, ok := m.Descriptors[path]; !ok {
		return nil, &entities.NotFoundError{Kind: "application", Target: path}
	}
	return m.Schemes[path], nil
}

// MockCatalog implements ports.AppCatalog.
type MockCatalog struct {
	Apps []entities.Descriptor
	Err  error
}

func (m *MockCatalog) List(ctx context.Context) ([]entities.Descriptor, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Apps, nil
}

// MockRegistry implements ports.BindingRegistry. Writes are recorded in
// TypeBindings/SchemeBindings unless DropWrites is set, which models a
// registry that accepts a write and silently ignores it.
type MockRegistry struct {
	TypeBindings   map[string]string
	SchemeBindings map[string]string

	DropWrites bool
	ReadErr    error
	WriteErr   error

	SetTypeCalls   int
	SetSchemeCalls int
}

func NewMockRegistry() *MockRegistry {
	return &MockRegistry{
		TypeBindings:   make(map[string]string),
		SchemeBindings: make(map[string]string),
	}
}

func (m *MockRegistry) DefaultForType(ctx context.Context, t values.TypeID) (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	path, ok := m.TypeBindings[t.Fold()]
	if !ok {
		return "", &entities.NotFoundError{Kind: "binding", Target: t.String()}
	}
	return path, nil
}

func (m *MockRegistry) DefaultForScheme(ctx context.Context, s values.Scheme) (string, error) {
	if m.ReadErr != nil {
		return "", m.ReadErr
	}
	path, ok := m.SchemeBindings[s.String()]
	if !ok {
		return "", &entities.NotFoundError{Kind: "binding", Target: s.String()}
	}
	return path, nil
}

func (m *MockRegistry) SetDefaultForType(ctx context.Context, appPath string, t values.TypeID) error {
	m.SetTypeCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.DropWrites {
		return nil
	}
	m.TypeBindings[t.Fold()] = appPath
	return nil
}

func (m *MockRegistry) SetDefaultForScheme(ctx context.Context, appPath string, s values.Scheme) error {
	m.SetSchemeCalls++
	if m.WriteErr != nil {
		return m.WriteErr
	}
	if m.DropWrites {
		return nil
	}
	m.SchemeBindings[s.String()] = appPath
	return nil
}

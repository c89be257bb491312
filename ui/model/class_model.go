package model

import "github.com/soocke/box-annotator/domain/dataset"

// ClassModel holds the class registry shown in the class dropdown and the
// current choice. The zero value has no classes and no selection.
// No synchronization needed: updates occur on the UI thread.
type ClassModel struct {
	names    []string
	selected int
	chosen   bool
}

func NewClassModel(names []string) *ClassModel {
	m := &ClassModel{}
	m.SetClasses(names)
	return m
}

// SetClasses replaces the registry. The choice survives if still in range.
func (m *ClassModel) SetClasses(names []string) {
	if m == nil {
		return
	}
	m.names = append([]string(nil), names...)
	if m.selected >= len(m.names) {
		m.chosen = false
		m.selected = 0
	}
}

// Names returns the class names in id order.
func (m *ClassModel) Names() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.names...)
}

// Select chooses class id i. Out-of-range ids clear the choice.
func (m *ClassModel) Select(i int) {
	if m == nil {
		return
	}
	if i < 0 || i >= len(m.names) {
		m.chosen, m.selected = false, 0
		return
	}
	m.chosen, m.selected = true, i
}

// SelectedClass implements annotate.ClassSource.
func (m *ClassModel) SelectedClass() (int, bool) {
	if m == nil || !m.chosen {
		return 0, false
	}
	return m.selected, true
}

// Name returns the display name of class id i.
func (m *ClassModel) Name(i int) string {
	if m == nil || i < 0 || i >= len(m.names) {
		return "?"
	}
	return m.names[i]
}

// Apply takes a registry update from AddClass and selects the added class.
// An "exists" result leaves the model untouched.
func (m *ClassModel) Apply(res dataset.AddClassResult) {
	if m == nil || res.Status != dataset.StatusAdded {
		return
	}
	m.SetClasses(res.Classes)
	m.Select(res.ClassID)
}

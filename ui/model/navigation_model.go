package model

// NavigationModel tracks the ordered image list and the current index.
// The index is always clamped to [0, total-1]; an empty list has no current image.
type NavigationModel struct {
	images []string
	idx    int
}

func NewNavigationModel(images []string, idx int) *NavigationModel {
	m := &NavigationModel{}
	m.SetImages(images)
	m.Seek(idx)
	return m
}

// SetImages replaces the list, keeping the index clamped.
func (m *NavigationModel) SetImages(images []string) {
	if m == nil {
		return
	}
	m.images = append([]string(nil), images...)
	m.Seek(m.idx)
}

// Seek moves to i, clamped.
func (m *NavigationModel) Seek(i int) {
	if m == nil {
		return
	}
	if i >= len(m.images) {
		i = len(m.images) - 1
	}
	if i < 0 {
		i = 0
	}
	m.idx = i
}

// SeekID moves to the image named id. It reports whether id is listed.
func (m *NavigationModel) SeekID(id string) bool {
	if m == nil {
		return false
	}
	for i, n := range m.images {
		if n == id {
			m.idx = i
			return true
		}
	}
	return false
}

// Next advances one image. It reports whether the index moved.
func (m *NavigationModel) Next() bool {
	if m == nil {
		return false
	}
	prev := m.idx
	m.Seek(m.idx + 1)
	return m.idx != prev
}

// Prev steps back one image. It reports whether the index moved.
func (m *NavigationModel) Prev() bool {
	if m == nil {
		return false
	}
	prev := m.idx
	m.Seek(m.idx - 1)
	return m.idx != prev
}

func (m *NavigationModel) Index() int {
	if m == nil {
		return 0
	}
	return m.idx
}

func (m *NavigationModel) Total() int {
	if m == nil {
		return 0
	}
	return len(m.images)
}

// Current returns the image id at the index.
func (m *NavigationModel) Current() (string, bool) {
	if m == nil || len(m.images) == 0 {
		return "", false
	}
	return m.images[m.idx], true
}

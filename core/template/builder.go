package template

import "time"

// Builder operations on the Template aggregate. Every rejected operation
// (boundary move, minimum-cardinality remove, stale or unselected reorder)
// leaves the aggregate unchanged and reports false.

func (t *Template) touch() {
	t.UpdatedAt = time.Now().UTC()
}

// Editable reports whether builder mutations are allowed in the template's
// current lifecycle status.
func (t *Template) Editable() bool {
	return t.Status == StatusDraft || t.Status == StatusManagerEdit
}

// Page returns the page with the given id, or nil.
func (t *Template) Page(id string) *Page {
	if i := t.Pages.index(id); i >= 0 {
		return &t.Pages[i]
	}
	return nil
}

// Title fields. The title-field collection has no minimum size; only the
// question-per-page and page-per-template minimums are enforced.

// AddTitleField appends a new field with a fresh id. Types are restricted to
// the title-field subset of the catalog.
func (t *Template) AddTitleField(label string, typ ResponseType) (TitleField, bool) {
	if !typ.ValidForTitleField() {
		return TitleField{}, false
	}
	fld := TitleField{ID: newID(), Label: label, Type: typ}
	t.TitleFields = append(t.TitleFields, fld)
	t.touch()
	return fld, true
}

func (t *Template) RemoveTitleField(id string) bool {
	i := t.TitleFields.index(id)
	if i < 0 {
		return false
	}
	t.TitleFields = append(t.TitleFields[:i], t.TitleFields[i+1:]...)
	t.touch()
	return true
}

func (t *Template) MoveTitleField(i int, dir Direction) bool {
	if !StepMove(t.TitleFields, i, dir) {
		return false
	}
	t.touch()
	return true
}

// ReorderTitleField moves the field with the given id to the target position.
// The current index is resolved by id at commit time; a stale reference
// (field removed since the drag started) cancels the reorder.
func (t *Template) ReorderTitleField(id string, target int) bool {
	if !Reorder(t.TitleFields, t.TitleFields.index(id), target) {
		return false
	}
	t.touch()
	return true
}

// Pages. A template always keeps at least one page, and every page at least
// one question: new pages are seeded with a default question.

func (t *Template) AddPage(title string) Page {
	pg := Page{
		ID:        newID(),
		Title:     title,
		Questions: Questions{{ID: newID(), Text: "", Type: TypeYesNo}},
	}
	t.Pages = append(t.Pages, pg)
	t.touch()
	return pg
}

func (t *Template) RemovePage(id string) bool {
	if len(t.Pages) <= 1 {
		return false
	}
	i := t.Pages.index(id)
	if i < 0 {
		return false
	}
	t.Pages = append(t.Pages[:i], t.Pages[i+1:]...)
	t.touch()
	return true
}

func (t *Template) MovePage(i int, dir Direction) bool {
	if !StepMove(t.Pages, i, dir) {
		return false
	}
	t.touch()
	return true
}

func (t *Template) ReorderPage(id string, target int) bool {
	if !Reorder(t.Pages, t.Pages.index(id), target) {
		return false
	}
	t.touch()
	return true
}

// Questions, scoped per page. Each page's question list is an independent
// ordered collection.

func (t *Template) AddQuestion(pageID, text string, typ ResponseType) (Question, bool) {
	pg := t.Page(pageID)
	if pg == nil || !typ.ValidForQuestion() {
		return Question{}, false
	}
	q := Question{ID: newID(), Text: text, Type: typ}
	pg.Questions = append(pg.Questions, q)
	t.touch()
	return q, true
}

func (t *Template) RemoveQuestion(pageID, id string) bool {
	pg := t.Page(pageID)
	if pg == nil || len(pg.Questions) <= 1 {
		return false
	}
	i := pg.Questions.index(id)
	if i < 0 {
		return false
	}
	pg.Questions = append(pg.Questions[:i], pg.Questions[i+1:]...)
	t.touch()
	return true
}

func (t *Template) MoveQuestion(pageID string, i int, dir Direction) bool {
	pg := t.Page(pageID)
	if pg == nil || !StepMove(pg.Questions, i, dir) {
		return false
	}
	t.touch()
	return true
}

func (t *Template) ReorderQuestion(pageID, id string, target int) bool {
	pg := t.Page(pageID)
	if pg == nil {
		return false
	}
	if !Reorder(pg.Questions, pg.Questions.index(id), target) {
		return false
	}
	t.touch()
	return true
}

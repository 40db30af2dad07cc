package template

import (
	"reflect"
	"testing"
)

func draftTemplate() *Template {
	return &Template{
		ID:     newID(),
		Title:  "Factory Audit",
		Status: StatusDraft,
		Pages: Pages{
			{ID: "p1", Title: "Page 1", Questions: Questions{{ID: "q1", Text: "Clean?", Type: TypeYesNo}}},
		},
	}
}

func TestTemplate_Editable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{StatusDraft, true},
		{StatusManagerEdit, true},
		{StatusSubmitted, false},
		{StatusPublished, false},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			tmpl := Template{Status: tt.status}
			if got := tmpl.Editable(); got != tt.want {
				t.Errorf("Editable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTemplate_titleFields(t *testing.T) {
	tmpl := draftTemplate()

	fld, ok := tmpl.AddTitleField("Site", TypeSite)
	if !ok {
		t.Fatal("AddTitleField() rejected a valid type")
	}
	if fld.ID == "" {
		t.Error("AddTitleField() did not assign an id")
	}
	if _, ok := tmpl.AddTitleField("Check", TypeYesNo); ok {
		t.Error("AddTitleField() accepted a question-only type")
	}

	fld2, _ := tmpl.AddTitleField("Date", TypeDate)
	fld3, _ := tmpl.AddTitleField("Inspector", TypePerson)

	// step moves
	if !tmpl.MoveTitleField(2, Up) {
		t.Error("MoveTitleField(2, Up) should move")
	}
	if got, want := tmpl.TitleFields.IDs(), []string{fld.ID, fld3.ID, fld2.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	if tmpl.MoveTitleField(0, Up) {
		t.Error("MoveTitleField(0, Up) should be a no-op")
	}
	if tmpl.MoveTitleField(2, Down) {
		t.Error("MoveTitleField(last, Down) should be a no-op")
	}

	// id-resolved reorder
	if !tmpl.ReorderTitleField(fld.ID, 2) {
		t.Error("ReorderTitleField() should move")
	}
	if got, want := tmpl.TitleFields.IDs(), []string{fld3.ID, fld2.ID, fld.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// a reference that went stale mid-drag cancels the reorder
	if !tmpl.RemoveTitleField(fld2.ID) {
		t.Fatal("RemoveTitleField() failed")
	}
	if tmpl.ReorderTitleField(fld2.ID, 0) {
		t.Error("ReorderTitleField() moved a removed field")
	}
	if got, want := tmpl.TitleFields.IDs(), []string{fld3.ID, fld.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// the title-field collection may be emptied entirely
	tmpl.RemoveTitleField(fld3.ID)
	tmpl.RemoveTitleField(fld.ID)
	if len(tmpl.TitleFields) != 0 {
		t.Errorf("TitleFields = %v, want empty", tmpl.TitleFields)
	}
}

func TestTemplate_pages(t *testing.T) {
	tmpl := draftTemplate()

	// last page cannot be removed
	if tmpl.RemovePage("p1") {
		t.Error("RemovePage() removed the last page")
	}

	pg2 := tmpl.AddPage("Page 2")
	if len(pg2.Questions) != 1 {
		t.Errorf("AddPage() seeded %d questions, want 1", len(pg2.Questions))
	}
	pg3 := tmpl.AddPage("Page 3")

	if !tmpl.MovePage(2, Up) {
		t.Error("MovePage(2, Up) should move")
	}
	if got, want := tmpl.Pages.IDs(), []string{"p1", pg3.ID, pg2.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	if !tmpl.ReorderPage("p1", 2) {
		t.Error("ReorderPage() should move")
	}
	if got, want := tmpl.Pages.IDs(), []string{pg3.ID, pg2.ID, "p1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	if !tmpl.RemovePage(pg2.ID) {
		t.Error("RemovePage() failed")
	}
	if tmpl.RemovePage("nope") {
		t.Error("RemovePage() removed an unknown page")
	}
}

func TestTemplate_questions(t *testing.T) {
	tmpl := draftTemplate()

	q2, ok := tmpl.AddQuestion("p1", "Temperature?", TypeNumber)
	if !ok {
		t.Fatal("AddQuestion() rejected a valid type")
	}
	if _, ok := tmpl.AddQuestion("nope", "Lost?", TypeText); ok {
		t.Error("AddQuestion() accepted an unknown page")
	}

	q3, _ := tmpl.AddQuestion("p1", "Inspected by?", TypePerson)

	if !tmpl.MoveQuestion("p1", 0, Down) {
		t.Error("MoveQuestion(0, Down) should move")
	}
	if got, want := tmpl.Page("p1").Questions.IDs(), []string{q2.ID, "q1", q3.ID}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	if !tmpl.ReorderQuestion("p1", q3.ID, 0) {
		t.Error("ReorderQuestion() should move")
	}
	if got, want := tmpl.Page("p1").Questions.IDs(), []string{q3.ID, q2.ID, "q1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	// each page keeps at least one question
	if !tmpl.RemoveQuestion("p1", q2.ID) {
		t.Error("RemoveQuestion() failed")
	}
	if !tmpl.RemoveQuestion("p1", q3.ID) {
		t.Error("RemoveQuestion() failed")
	}
	if tmpl.RemoveQuestion("p1", "q1") {
		t.Error("RemoveQuestion() removed the last question")
	}

	// question order is independent per page
	pg2 := tmpl.AddPage("Page 2")
	if tmpl.MoveQuestion(pg2.ID, 0, Down) {
		t.Error("MoveQuestion() on a single-question page should be a no-op")
	}
	if got := tmpl.Page("p1").Questions.IDs(); !reflect.DeepEqual(got, []string{"q1"}) {
		t.Errorf("page 1 order = %v, want [q1]", got)
	}
}

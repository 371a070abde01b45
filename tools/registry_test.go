package tools

import "testing"

func TestRegistry_ClosedCatalogHasNineTools(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	names := r.Names()
	if len(names) != 9 {
		t.Fatalf("expected exactly 9 tools in the closed catalog, got %d: %v", len(names), names)
	}

	want := []string{
		"list_directory_contents",
		"read_file_content",
		"run_diagnostic_command",
		"search_file_content",
		"get_file_structure",
		"propose_code_patch",
		"propose_fix_by_command",
		"ask_user_for_clarification",
		"finish_debugging",
	}
	for _, name := range want {
		if !r.Has(name) {
			t.Errorf("catalog missing tool %q", name)
		}
	}
}

func TestRegistry_ExecuteRejectsUnknownTool(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	_, err := r.Execute(nil, "delete_everything", nil)
	if err == nil {
		t.Fatalf("expected an error for a tool outside the closed catalog")
	}
}

func TestRegistry_DescriptorsExposeSchemas(t *testing.T) {
	dir := setupTestDir(t)
	r := newTestRegistry(dir, &fakeSubprocess{}, &fakeUI{})

	for _, d := range r.Descriptors() {
		if d.Name == "" || d.Description == "" {
			t.Errorf("descriptor missing name/description: %+v", d)
		}
		if len(d.Parameters) == 0 {
			t.Errorf("descriptor %q has no parameter schema", d.Name)
		}
	}
}

package language

import (
	"reflect"
	"testing"
)

func TestResolver_Command(t *testing.T) {
	r := NewResolver(map[string]string{
		"python": "python3 {file}",
		"rust":   `sh -c "rustc {file} -o /tmp/out && /tmp/out"`,
	})

	argv, ok := r.Command("python", "/tmp/snippet.python")
	if !ok {
		t.Fatal("expected python to resolve")
	}
	want := []string{"python3", "/tmp/snippet.python"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("expected %#v, got %#v", want, argv)
	}

	argv, ok = r.Command("rust", "/tmp/x.rust")
	if !ok {
		t.Fatal("expected rust to resolve")
	}
	want = []string{"sh", "-c", "rustc /tmp/x.rust -o /tmp/out && /tmp/out"}
	if !reflect.DeepEqual(argv, want) {
		t.Errorf("expected %#v, got %#v", want, argv)
	}
}

func TestResolver_CommandUnknownLanguage(t *testing.T) {
	r := NewResolver(map[string]string{"python": "python3 {file}"})

	if _, ok := r.Command("cobol", "/tmp/x"); ok {
		t.Error("expected unknown language not to resolve")
	}
}

func TestResolver_Lookup(t *testing.T) {
	r := NewResolver(map[string]string{"python": "python3 {file}"})

	template, ok := r.Lookup("python")
	if !ok || template != "python3 {file}" {
		t.Errorf("expected raw template, got %q (ok=%v)", template, ok)
	}
	if _, ok := r.Lookup("missing"); ok {
		t.Error("expected missing language lookup to fail")
	}
}

func TestResolver_DependencyPresent(t *testing.T) {
	r := NewResolver(nil)

	// Shell invocations are assumed present.
	if !r.DependencyPresent([]string{"sh", "-c", "true"}) {
		t.Error("expected sh to be considered present")
	}
	if !r.DependencyPresent([]string{"bash", "x"}) {
		t.Error("expected bash to be considered present")
	}

	if r.DependencyPresent(nil) {
		t.Error("expected empty argv to be absent")
	}
	if r.DependencyPresent([]string{"mdrun-no-such-binary-2f8a"}) {
		t.Error("expected unknown binary to be absent")
	}
}

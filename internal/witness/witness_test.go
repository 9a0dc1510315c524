package witness

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ulikunitz/xz"

	cerrors "github.com/FocuswithJustin/JuniperCollate/core/errors"
)

// writeInput writes a witness file with the given body into dir.
func writeInput(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	content := Compose([]string{"title", "source", "notes"}, body)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeCompressed writes an xz-compressed witness file into dir.
func writeCompressed(t *testing.T, dir, name, body string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(Compose(nil, body))); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLayout(t *testing.T) {
	l := Layout{Root: "/w", Prefix: "marculf_2"}
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"input dir", l.InputDir(), "/w/txt_from_XML"},
		{"input file", l.InputFile("P12"), "/w/txt_from_XML/marculf_2_P12_input.txt"},
		{"engine input", l.EngineInput(), "/w/collatex_json_input/marculf_2_input.json"},
		{"engine output", l.EngineOutput(), "/w/collatex_output/marculf_2_output.json"},
		{"csv", l.CSV(), "/w/collatex_output/marculf_2_output.csv"},
		{"document", l.Document(), "/w/collatex_output/marculf_2_output_finished.xml"},
	}
	for _, tt := range tests {
		if tt.got != filepath.FromSlash(tt.want) {
			t.Errorf("%s = %q, want %q", tt.name, tt.got, tt.want)
		}
	}

	s := Layout{Root: "/w", Prefix: "marculf_2", Special: true}
	if got, want := s.InputDir(), filepath.FromSlash("/w/txt_from_XML/special"); got != want {
		t.Errorf("special InputDir = %q, want %q", got, want)
	}
	if got, want := s.EngineInput(), filepath.FromSlash("/w/collatex_json_input/marculf_2_special_input.json"); got != want {
		t.Errorf("special EngineInput = %q, want %q", got, want)
	}
	if got, want := s.CSV(), filepath.FromSlash("/w/collatex_output/marculf_2_special_output.csv"); got != want {
		t.Errorf("special CSV = %q, want %q", got, want)
	}
}

func TestEnsureDirs(t *testing.T) {
	l := Layout{Root: t.TempDir(), Prefix: "f"}
	if err := l.EnsureDirs(); err != nil {
		t.Fatal(err)
	}
	for _, d := range []string{EngineInputDirName, EngineOutputDirName} {
		if fi, err := os.Stat(filepath.Join(l.Root, d)); err != nil || !fi.IsDir() {
			t.Errorf("directory %s not created: %v", d, err)
		}
	}
}

func TestSiglumFromPath(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
		want   string
		ok     bool
	}{
		{"marculf_2", "/w/txt_from_XML/marculf_2_P12_input.txt", "P12", true},
		{"marculf_2", "marculf_2_P007b_input.txt.xz", "P007b", true},
		{"marculf", "marculf_2_P12_input.txt", "2_P12", true},
		{"marculf_2", "marculf_3_P12_input.txt", "", false},
		{"marculf_2", "marculf_2_P12.txt", "", false},
		{"marculf_2", "marculf_2__input.txt", "", false},
	}
	for _, tt := range tests {
		got, ok := SiglumFromPath(tt.prefix, tt.path)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SiglumFromPath(%q, %q) = %q, %v; want %q, %v", tt.prefix, tt.path, got, ok, tt.want, tt.ok)
		}
	}
}

func TestBody(t *testing.T) {
	content := "a\n******\nb\n******\nc\n******\nIn principio erat\n******\ntrailer"
	got, err := Body(content, "x")
	if err != nil {
		t.Fatal(err)
	}
	if got != "In principio erat\n" {
		t.Errorf("Body = %q", got)
	}

	_, err = Body("a\n******\nb\n******\nc\n", "short.txt")
	if !errors.Is(err, cerrors.ErrInvalidInput) {
		t.Fatalf("Body(short) = %v, want ErrInvalidInput", err)
	}
	var pe *cerrors.ParseError
	if !errors.As(err, &pe) || pe.Path != "short.txt" {
		t.Errorf("expected ParseError with path, got %v", err)
	}
}

func TestCompose(t *testing.T) {
	got := Compose([]string{"t", "", "n\n", "extra"}, "body")
	want := "t\n******\n******\nn\n******\nbody\n"
	if got != want {
		t.Errorf("Compose = %q, want %q", got, want)
	}
	body, err := Body(got, "")
	if err != nil || body != "body\n" {
		t.Errorf("Body(Compose) = %q, %v", body, err)
	}
}

func TestLoad(t *testing.T) {
	root := t.TempDir()
	l := Layout{Root: root, Prefix: "marculf_2"}
	dir := l.InputDir()
	writeInput(t, dir, "marculf_2_P16_input.txt", "In principio, erat verbum.")
	writeInput(t, dir, "marculf_2_P12_input.txt", "In PRINCIPIO erat")
	writeCompressed(t, dir, "marculf_2_B3_input.txt.xz", "In principio -- erat")
	writeInput(t, dir, "marculf_3_P12_input.txt", "other formula")
	writeInput(t, dir, "marculf_2_extra_P12_input.txt", "longer prefix")
	writeInput(t, filepath.Join(dir, SpecialDirName), "marculf_2_S1_input.txt", "special")

	ws, err := Load(context.Background(), l)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	var sigla []string
	for _, w := range ws {
		sigla = append(sigla, w.Siglum)
	}
	if diff := cmp.Diff([]string{"B3", "P12", "P16"}, sigla); diff != "" {
		t.Fatalf("sigla mismatch (-want +got):\n%s", diff)
	}

	b3 := Find(ws, "B3")
	if diff := cmp.Diff([]string{"in", "principio", "erat"}, b3.Normalized()); diff != "" {
		t.Errorf("B3 normalized mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"In", "principio --", "erat"}, b3.BaseText()); diff != "" {
		t.Errorf("B3 base text mismatch (-want +got):\n%s", diff)
	}

	p12 := Find(ws, "P12")
	if diff := cmp.Diff([]string{"in", "PRINCIPIO", "erat"}, p12.Normalized()); diff != "" {
		t.Errorf("P12 normalized mismatch (-want +got):\n%s", diff)
	}

	in := Input(ws)
	if diff := cmp.Diff([]string{"B3", "P12", "P16"}, in.IDs()); diff != "" {
		t.Errorf("input ids mismatch (-want +got):\n%s", diff)
	}
	if got := len(in.Witnesses[2].Tokens); got != 4 {
		t.Errorf("P16 has %d engine tokens, want 4", got)
	}

	if Find(ws, "X") != nil {
		t.Error("Find(X) should be nil")
	}
}

func TestLoadSpecial(t *testing.T) {
	root := t.TempDir()
	l := Layout{Root: root, Prefix: "f", Special: true}
	writeInput(t, filepath.Join(root, InputDirName), "f_A_input.txt", "main")
	writeInput(t, l.InputDir(), "f_S1_input.txt", "special")

	ws, err := Load(context.Background(), l)
	if err != nil {
		t.Fatal(err)
	}
	if len(ws) != 1 || ws[0].Siglum != "S1" {
		t.Errorf("special Load = %+v", ws)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("no inputs", func(t *testing.T) {
		_, err := Load(context.Background(), Layout{Root: t.TempDir(), Prefix: "f"})
		if !errors.Is(err, cerrors.ErrNotFound) {
			t.Errorf("Load() = %v, want ErrNotFound", err)
		}
	})

	t.Run("missing marker segments", func(t *testing.T) {
		l := Layout{Root: t.TempDir(), Prefix: "f"}
		if err := os.MkdirAll(l.InputDir(), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(l.InputFile("A"), []byte("no markers here"), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := Load(context.Background(), l)
		var pe *cerrors.ParseError
		if !errors.As(err, &pe) {
			t.Errorf("Load() = %v, want ParseError", err)
		}
	})

	t.Run("duplicate siglum", func(t *testing.T) {
		l := Layout{Root: t.TempDir(), Prefix: "f"}
		writeInput(t, l.InputDir(), "f_A_input.txt", "x")
		writeCompressed(t, l.InputDir(), "f_A_input.txt.xz", "x")
		_, err := Load(context.Background(), l)
		if !errors.Is(err, cerrors.ErrInvalidInput) {
			t.Errorf("Load() = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("plain text named xz", func(t *testing.T) {
		l := Layout{Root: t.TempDir(), Prefix: "f"}
		writeInput(t, l.InputDir(), "f_A_input.txt.xz", "x")
		_, err := Load(context.Background(), l)
		if !errors.Is(err, cerrors.ErrInvalidInput) {
			t.Errorf("Load() = %v, want ErrInvalidInput", err)
		}
	})
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope_input.txt"))
	if !errors.Is(err, cerrors.ErrNotFound) {
		t.Errorf("ReadFile(missing) = %v, want ErrNotFound", err)
	}
}

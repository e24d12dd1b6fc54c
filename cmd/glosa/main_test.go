package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// glosa runs the CLI in dir with a clean locale and returns exit code,
// stdout and stderr.
func glosa(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	for _, k := range []string{"LC_ALL", "LC_MESSAGES", "GLOSA_HOST", "GLOSA_VOCAB", "GLOSA_CACHE", "GLOSA_CACHE_DIR", "GLOSA_SOURCE_ROOT"} {
		t.Setenv(k, "")
	}
	t.Setenv("LANG", "C")
	if dir != "" {
		prev, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(dir); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(prev) })
	}
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := execute(root, append([]string{"--color", "off"}, args...), &stderr)
	return code, stdout.String(), stderr.String()
}

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestUsageErrorsExitTwo(t *testing.T) {
	tests := [][]string{
		{"run", "spanish", "Hola.es"},
		{"run", "spanish", "Hola.es", "Hola", "extra"},
		{"frobnicate"},
		{"run", "--format", "xml", "spanish", "Hola.es", "Hola"},
		{"version", "--bogus"},
	}
	for _, args := range tests {
		code, _, stderr := glosa(t, "", args...)
		if code != exitUsage {
			t.Errorf("%v: exit %d, want %d (stderr %q)", args, code, exitUsage, stderr)
		}
		if !strings.Contains(stderr, "--help") {
			t.Errorf("%v: no usage hint in %q", args, stderr)
		}
	}
}

func TestBadColorFlag(t *testing.T) {
	var stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	if code := execute(root, []string{"--color", "purple", "version"}, &stderr); code != exitUsage {
		t.Errorf("exit %d", code)
	}
}

func TestRunUnsupportedLanguageExitsOne(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/Hola.kl": "qaStaHvIS\n"})
	code, stdout, stderr := glosa(t, dir, "run", "klingon", "Hola.kl", "Hola")
	if code != exitError {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stderr, "unsupported language klingon") || !strings.Contains(stderr, "spanish") {
		t.Errorf("stderr = %q", stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunMissingSourceExitsOne(t *testing.T) {
	dir := writeProject(t, map[string]string{"glosa.toml": "[project]\nsource_root = \"programas\"\n"})
	code, _, stderr := glosa(t, dir, "run", "spanish", "Nada.es", "Nada")
	if code != exitError || !strings.Contains(stderr, filepath.Join("programas", "Nada.es")) {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}

func TestRunClearCacheDropsEntries(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"glosa.toml":                 "[toolchain]\njavac = \"/nonexistent/javac\"\n\n[cache]\nenabled = true\ndir = \".cache\"\n",
		"src/Main.es":                "publico clase Main {}\n",
		".cache/units/old/payload.mp": "stale",
	})
	code, _, stderr := glosa(t, dir, "run", "--clear-cache", "spanish", "Main.es", "Main")
	if code != exitError {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, ".cache", "units", "old")); !os.IsNotExist(err) {
		t.Errorf("stale entry survived --clear-cache: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ".cache")); err != nil {
		t.Errorf("cache dir not recreated: %v", err)
	}
}

func TestTranslateToStdout(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/Main.es": "publico clase Main {\n  // si\n  publico estatico vacio main(Texto[] a) { imprimir(\"si\"); }\n}\n",
	})
	code, stdout, stderr := glosa(t, dir, "translate", "--ui-lang", "en", "spanish", "Main.es")
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	want := "public class Main {\n  // si\n  public static void main(String[] a) { System.out.println(\"si\"); }\n}\n"
	if stdout != want {
		t.Errorf("stdout =\n%s\nwant\n%s", stdout, want)
	}
	if !strings.Contains(stderr, "Main.es: translated 7 spanish keywords") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestTranslateUsesProgramLanguageForStatus(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/a.es": "publico clase A {}\n"})
	code, _, stderr := glosa(t, dir, "translate", "spanish", "a.es")
	if code != exitOK || !strings.Contains(stderr, "a.es: se tradujeron 2 palabras clave en spanish") {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}

func TestUILangOverridesTableLocale(t *testing.T) {
	dir := writeProject(t, map[string]string{"src/a.es": "publico clase A {}\n"})
	code, _, stderr := glosa(t, dir, "translate", "--ui-lang", "fr", "spanish", "a.es")
	if code != exitOK || !strings.Contains(stderr, "a.es : 2 mots-clés spanish traduits") {
		t.Errorf("exit %d, stderr %q", code, stderr)
	}
}

func TestTranslateOutDirAndWarnings(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"src/a.es": "publico clase A {}\n",
		"src/b.es": "clase B { Texto s = \"sin cerrar\n}\n",
	})
	out := filepath.Join(dir, "out")
	code, stdout, stderr := glosa(t, dir, "--quiet", "translate", "--out-dir", out, "--format", "short", "spanish", "a.es", "b.es")
	if code != exitOK {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != "" {
		t.Errorf("stdout = %q", stdout)
	}
	a, err := os.ReadFile(filepath.Join(out, "a.java"))
	if err != nil || string(a) != "public class A {}\n" {
		t.Errorf("a.java = %q, %v", a, err)
	}
	if _, err := os.Stat(filepath.Join(out, "b.java")); err != nil {
		t.Errorf("b.java: %v", err)
	}
	if !strings.Contains(stderr, "TRN") || strings.Contains(stderr, "translated") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestLanguages(t *testing.T) {
	code, stdout, _ := glosa(t, t.TempDir(), "languages")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	for _, want := range []string{"Languages for java", "spanish", "french", "portuguese", "russian"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %q in\n%s", want, stdout)
		}
	}
	code, stdout, _ = glosa(t, t.TempDir(), "--host", "go", "languages", "spanish")
	if code != exitOK || !strings.Contains(stdout, "go") || !strings.Contains(stdout, "func") {
		t.Errorf("exit %d, stdout\n%s", code, stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	code, stdout, _ := glosa(t, "", "version", "--format", "json")
	if code != exitOK {
		t.Fatalf("exit %d", code)
	}
	var v versionPayload
	if err := json.Unmarshal([]byte(stdout), &v); err != nil {
		t.Fatal(err)
	}
	if v.Tool != "glosa" || len(v.Hosts) != 2 {
		t.Errorf("payload = %+v", v)
	}
}

func TestHostFileName(t *testing.T) {
	tests := []struct{ host, path, want string }{
		{"java", "src/Hola.es", "Hola.java"},
		{"go", "hola.ru", "hola.go"},
		{"cobol", "x.es", "x.es"},
	}
	for _, tt := range tests {
		if got := hostFileName(tt.host, tt.path); got != tt.want {
			t.Errorf("hostFileName(%q, %q) = %q", tt.host, tt.path, got)
		}
	}
}

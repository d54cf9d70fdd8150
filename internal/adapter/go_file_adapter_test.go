package adapter

import (
	"strings"
	"testing"

	"go/token"
)

const sampleSource = `package main

func main() {
	println("hi")
}
`

func TestLocalGoFileAdapter_Parse(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	file, err := adapter.Parse(fset, "main.go", []byte(sampleSource))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if file.Name.Name != "main" {
		t.Fatalf("Parse() package = %s, want main", file.Name.Name)
	}
}

func TestLocalGoFileAdapter_Parse_InvalidSource(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	fset := token.NewFileSet()

	if _, err := adapter.Parse(fset, "broken.go", []byte("package foo\n func")); err == nil {
		t.Fatalf("Parse() expected error for invalid source")
	}
}

func TestLocalGoFileAdapter_Insert(t *testing.T) {
	adapter := NewLocalGoFileAdapter()
	body := strings.Index(sampleSource, "{") + 1
	stmt := strings.Index(sampleSource, "println")

	out, err := adapter.Insert([]byte(sampleSource), []Insertion{
		{Offset: stmt, Text: "b(); "},
		{Offset: body, Text: "setup(); "},
		{Offset: stmt, Text: "c(); "},
		{Offset: len(sampleSource), Text: "\nfunc setup() {}\n"},
	})
	if err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	want := "package main\n\nfunc main() {setup(); \n\tb(); c(); println(\"hi\")\n}\n\nfunc setup() {}\n"
	if string(out) != want {
		t.Fatalf("Insert() = %q, want %q", out, want)
	}

	if _, err := adapter.Parse(token.NewFileSet(), "main.go", out); err != nil {
		t.Fatalf("Insert() output does not parse: %v", err)
	}
}

func TestLocalGoFileAdapter_Insert_OutOfRange(t *testing.T) {
	adapter := NewLocalGoFileAdapter()

	if _, err := adapter.Insert([]byte("package p"), []Insertion{{Offset: 10, Text: "x"}}); err == nil {
		t.Fatalf("Insert() expected error for offset past the end")
	}
}

func TestLocalGoFileAdapter_Diff(t *testing.T) {
	adapter := NewLocalGoFileAdapter()

	after := strings.Replace(sampleSource, `println("hi")`, `println("bye")`, 1)

	diff, err := adapter.Diff("main.go", []byte(sampleSource), []byte(after))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	for _, want := range []string{"--- main.go", "+++ main.go (instrumented)", `-	println("hi")`, `+	println("bye")`} {
		if !strings.Contains(diff, want) {
			t.Fatalf("Diff() missing %q in:\n%s", want, diff)
		}
	}

	same, err := adapter.Diff("main.go", []byte(sampleSource), []byte(sampleSource))
	if err != nil {
		t.Fatalf("Diff() error = %v", err)
	}

	if same != "" {
		t.Fatalf("Diff() of identical input = %q, want empty", same)
	}
}

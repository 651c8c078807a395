package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"kiln/internal/history"
	"kiln/internal/preflight"
)

func TestStatusLineRender(t *testing.T) {
	line := statusLine{label: "Java", kind: statusOK, detail: "/usr/bin/java"}

	plain := line.render(false)
	if strings.Contains(plain, "\x1b[") {
		t.Fatalf("uncolorized line carries ANSI codes: %q", plain)
	}
	requireContains(t, plain, "[ ok ]")
	requireContains(t, plain, "Java")
	requireContains(t, plain, "/usr/bin/java")

	colored := statusLine{label: "Java", kind: statusError, detail: "missing"}.render(true)
	requireContains(t, colored, colorRed)
	requireContains(t, colored, colorReset)
	requireContains(t, colored, "[fail]")
}

func TestStatusFromCheck(t *testing.T) {
	ok := statusFromCheck(preflight.Result{Name: "Java", Passed: true, Detail: "/usr/bin/java"})
	if ok.kind != statusOK {
		t.Fatalf("expected ok kind, got %d", ok.kind)
	}
	failed := statusFromCheck(preflight.Result{Name: "Coursier", Detail: "not found"})
	if failed.kind != statusError {
		t.Fatalf("expected error kind, got %d", failed.kind)
	}
}

func TestPrintSectionUnderlinesTitle(t *testing.T) {
	var out bytes.Buffer
	printSection(&out, "Toolchain", false,
		statusLine{label: "Java", kind: statusOK, detail: "ready"})

	lines := strings.Split(out.String(), "\n")
	if len(lines) < 3 || lines[0] != "Toolchain" {
		t.Fatalf("unexpected section output:\n%s", out.String())
	}
	if lines[1] != strings.Repeat("-", len("Toolchain")) {
		t.Fatalf("expected underline after title, got %q", lines[1])
	}
	requireContains(t, lines[2], "Java")
}

func TestRenderInvocationTable(t *testing.T) {
	out := renderInvocationTable([]history.Invocation{
		{
			EntryClass: "scala.tools.nsc.Main",
			Args:       []string{"-d", "out", "A.scala"},
			ExitCode:   3,
			StartedAt:  time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
			Duration:   1500 * time.Millisecond,
		},
	})
	requireContains(t, out, "scala.tools.nsc.Main")
	requireContains(t, out, "-d out A.scala")
	requireContains(t, out, "3")
	requireContains(t, out, "1.5s")
	requireContains(t, out, "Exit")
}

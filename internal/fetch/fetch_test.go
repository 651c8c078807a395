package fetch_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"kiln/internal/fetch"
	"kiln/internal/logging"
)

type stubExecutor struct {
	out    string
	err    error
	binary string
	args   []string
}

func (s *stubExecutor) Run(_ context.Context, binary string, args []string) (string, error) {
	s.binary = binary
	s.args = append([]string(nil), args...)
	return s.out, s.err
}

func TestFetchComposesCommandLine(t *testing.T) {
	executor := &stubExecutor{out: "/cache/a.jar:/cache/b.jar\n"}
	resolver, err := fetch.NewCoursier("cs", logging.NewNop(), fetch.WithExecutor(executor))
	if err != nil {
		t.Fatalf("NewCoursier: %v", err)
	}

	classpath, err := resolver.Fetch(context.Background(), []string{
		"org.scala-lang:scala-compiler:2.13.14",
		"org.scala-lang:scala-library:2.13.14",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if classpath != "/cache/a.jar:/cache/b.jar" {
		t.Fatalf("classpath not trimmed: %q", classpath)
	}
	if executor.binary != "cs" {
		t.Fatalf("wrong binary: %s", executor.binary)
	}
	want := []string{"fetch", "--classpath", "org.scala-lang:scala-compiler:2.13.14", "org.scala-lang:scala-library:2.13.14"}
	if strings.Join(executor.args, " ") != strings.Join(want, " ") {
		t.Fatalf("unexpected args: %#v", executor.args)
	}
}

func TestFetchFailuresAreFatal(t *testing.T) {
	cause := errors.New("resolution failed")
	resolver, err := fetch.NewCoursier("cs", nil, fetch.WithExecutor(&stubExecutor{err: cause}))
	if err != nil {
		t.Fatalf("NewCoursier: %v", err)
	}
	if _, err := resolver.Fetch(context.Background(), []string{"bad:coord:1"}); !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
}

func TestFetchRejectsEmptyInput(t *testing.T) {
	resolver, err := fetch.NewCoursier("cs", nil, fetch.WithExecutor(&stubExecutor{out: "x"}))
	if err != nil {
		t.Fatalf("NewCoursier: %v", err)
	}
	if _, err := resolver.Fetch(context.Background(), nil); err == nil {
		t.Fatal("expected error for empty coordinates")
	}
}

func TestFetchRejectsEmptyClasspath(t *testing.T) {
	resolver, err := fetch.NewCoursier("cs", nil, fetch.WithExecutor(&stubExecutor{out: "  \n"}))
	if err != nil {
		t.Fatalf("NewCoursier: %v", err)
	}
	if _, err := resolver.Fetch(context.Background(), []string{"a:b:1"}); err == nil {
		t.Fatal("expected error for empty classpath output")
	}
}

func TestNewCoursierRequiresBinary(t *testing.T) {
	if _, err := fetch.NewCoursier("  ", nil); err == nil {
		t.Fatal("expected error for empty binary")
	}
}

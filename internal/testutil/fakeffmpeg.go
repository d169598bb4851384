package testutil

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
)

// FakeRunner stands in for ffmpeg. Concat writes the byte concatenation of
// the manifest entries, mix writes "mix(<a>|<b>)" of the input contents.
// Fail, when set, is returned instead of running.
type FakeRunner struct {
	mu    sync.Mutex
	Calls []FakeCall

	Fail error
	// SkipOutput exits successfully without writing anything.
	SkipOutput bool
}

// FakeCall records one invocation.
type FakeCall struct {
	Op   string
	Args []string
}

// Run implements ffmpeg.Runner.
func (f *FakeRunner) Run(ctx context.Context, op string, args []string) error {
	f.mu.Lock()
	f.Calls = append(f.Calls, FakeCall{Op: op, Args: append([]string(nil), args...)})
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if f.Fail != nil {
		return f.Fail
	}
	if f.SkipOutput {
		return nil
	}

	out := args[len(args)-1]
	inputs := inputsOf(args)

	var data []byte
	if containsPair(args, "-f", "concat") {
		entries, err := readManifest(inputs[0])
		if err != nil {
			return err
		}
		for _, e := range entries {
			b, err := os.ReadFile(e)
			if err != nil {
				return err
			}
			data = append(data, b...)
		}
	} else {
		parts := make([]string, 0, len(inputs))
		for _, in := range inputs {
			b, err := os.ReadFile(in)
			if err != nil {
				return err
			}
			parts = append(parts, string(b))
		}
		data = []byte("mix(" + strings.Join(parts, "|") + ")")
	}
	return os.WriteFile(out, data, 0o600)
}

// Ops returns the op of every call in order.
func (f *FakeRunner) Ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	ops := make([]string, len(f.Calls))
	for i, c := range f.Calls {
		ops[i] = c.Op
	}
	return ops
}

func inputsOf(args []string) []string {
	var in []string
	for i := 0; i < len(args)-1; i++ {
		if args[i] == "-i" {
			in = append(in, args[i+1])
		}
	}
	return in
}

func containsPair(args []string, k, v string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == k && args[i+1] == v {
			return true
		}
	}
	return false
}

func readManifest(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []string
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := sc.Text()
		if !strings.HasPrefix(line, "file '") || !strings.HasSuffix(line, "'") {
			return nil, fmt.Errorf("bad manifest line %q", line)
		}
		entries = append(entries, strings.ReplaceAll(line[6:len(line)-1], `'\''`, `'`))
	}
	return entries, sc.Err()
}

package golang

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/shapegen/document"
	"github.com/teranos/shapegen/infer"
	"github.com/teranos/shapegen/typegen"
)

const roundTripDoc = `{
	"id": 7,
	"ratio": 0.5,
	"name": "x",
	"ok": true,
	"none": null,
	"owner": {"name": "a", "tags": ["t"]},
	"users": [{"name": "a", "email": "x"}, {"name": "b", "email": null}],
	"points": [{"x": 1}, null],
	"grid": [[{"v": 1}], [{"v": 2}]],
	"mixed": [1, "a", [2]],
	"first-name": "y",
	"tags": []
}`

const roundTripMain = `package main

import (
	"encoding/json"
	"fmt"
	"os"
)

func main() {
	s := NewSample()
	out, err := json.Marshal(s.ToMap())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(string(out))
	fmt.Printf("%T %T %T %T\n", s.Users[0], s.Users[1], s.Points[0], s.Points[1])
}
`

// TestGeneratedCodeRoundTrips compiles the artifact with the go toolchain
// and checks that ToMap on the defaults reproduces the document.
func TestGeneratedCodeRoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("builds generated code with the go toolchain")
	}
	goBin, err := exec.LookPath("go")
	if err != nil {
		t.Skip("go toolchain not on PATH")
	}

	v, err := document.Parse([]byte(roundTripDoc), document.FormatJSON)
	require.NoError(t, err)
	s, err := infer.New(infer.Options{}).InferSchema(v, "sample")
	require.NoError(t, err)
	src, err := NewGenerator().GenerateFile(s, typegen.Metadata{Source: "sample.json", Version: "1.0.0", GoPackage: "main"})
	require.NoError(t, err, src)

	dir := t.TempDir()
	files := map[string]string{
		"go.mod":    "module roundtrip\n\ngo 1.21\n",
		"sample.go": src,
		"main.go":   roundTripMain,
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	cmd := exec.CommandContext(ctx, goBin, "run", ".")
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GOWORK=off", "GOTOOLCHAIN=local", "GOFLAGS=-mod=mod")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "%s\n%s", out, src)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 2, string(out))
	assert.JSONEq(t, roundTripDoc, lines[0])
	assert.Equal(t, "main.User main.User2 main.Point <nil>", lines[1])
}

// Command openapi-compat fails when a revised swagger document breaks clients of the base one.
// Both YAML and JSON documents are accepted.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

var supportedMethods = map[string]bool{
	"get": true, "put": true, "post": true, "delete": true,
	"patch": true, "head": true, "options": true,
}

type parameter struct {
	Name     string `yaml:"name"`
	In       string `yaml:"in"`
	Required bool   `yaml:"required"`
}

type operation struct {
	Parameters []parameter           `yaml:"parameters"`
	Responses  map[string]yaml.Node `yaml:"responses"`
}

type document struct {
	Paths map[string]map[string]yaml.Node `yaml:"paths"`
}

// api is a normalized view: path -> method -> operation.
type api map[string]map[string]operation

func main() {
	basePath := flag.String("base", "", "base swagger document")
	revisionPath := flag.String("revision", "", "revised swagger document")
	flag.Parse()

	if strings.TrimSpace(*basePath) == "" || strings.TrimSpace(*revisionPath) == "" {
		fmt.Fprintln(os.Stderr, "usage: openapi-compat -base <path> -revision <path>")
		os.Exit(2)
	}

	base, err := load(*basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load base document: %v\n", err)
		os.Exit(1)
	}
	revision, err := load(*revisionPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load revised document: %v\n", err)
		os.Exit(1)
	}

	if issues := compare(base, revision); len(issues) > 0 {
		fmt.Fprintln(os.Stderr, "backward compatibility check failed:")
		for _, issue := range issues {
			fmt.Fprintf(os.Stderr, "- %s\n", issue)
		}
		os.Exit(1)
	}
	fmt.Println("openapi compatibility check passed")
}

func load(path string) (api, error) {
	// #nosec G304: path comes from CLI flags in a dev tool
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(raw)
}

func parse(raw []byte) (api, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	if doc.Paths == nil {
		return nil, errors.New("missing top-level paths field")
	}

	out := make(api, len(doc.Paths))
	for path, methods := range doc.Paths {
		ops := make(map[string]operation)
		for method, node := range methods {
			m := strings.ToLower(strings.TrimSpace(method))
			if !supportedMethods[m] {
				continue
			}
			var op operation
			if err := node.Decode(&op); err != nil {
				return nil, fmt.Errorf("%s %s: %w", strings.ToUpper(m), path, err)
			}
			ops[m] = op
		}
		if len(ops) > 0 {
			out[path] = ops
		}
	}
	return out, nil
}

func requiredParams(op operation) map[string]bool {
	out := make(map[string]bool)
	for _, p := range op.Parameters {
		if p.Required {
			out[p.In+":"+p.Name] = true
		}
	}
	return out
}

func compare(base, revision api) []string {
	var issues []string

	for path, baseOps := range base {
		revOps, ok := revision[path]
		if !ok {
			issues = append(issues, fmt.Sprintf("removed path: %s", path))
			continue
		}

		for method, baseOp := range baseOps {
			label := strings.ToUpper(method) + " " + path
			revOp, ok := revOps[method]
			if !ok {
				issues = append(issues, fmt.Sprintf("removed operation: %s", label))
				continue
			}

			for code := range baseOp.Responses {
				if _, ok := revOp.Responses[code]; !ok {
					issues = append(issues, fmt.Sprintf("removed response code: %s -> %s", label, strings.ToUpper(code)))
				}
			}

			had := requiredParams(baseOp)
			for key := range requiredParams(revOp) {
				if !had[key] {
					issues = append(issues, fmt.Sprintf("new required parameter: %s -> %s", label, key))
				}
			}
		}
	}

	sort.Strings(issues)
	return issues
}

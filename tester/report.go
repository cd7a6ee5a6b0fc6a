package tester

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the outcome of one examples run.
type Report struct {
	RunID     string    `json:"run_id" yaml:"run_id"`
	Examples  string    `json:"examples" yaml:"examples"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Failures  int       `json:"failures" yaml:"failures"`
	Warnings  int       `json:"warnings" yaml:"warnings"`

	// NoTests is set when examples had no test methods.
	NoTests bool `json:"no_tests,omitempty" yaml:"no_tests,omitempty"`

	// Aborted describes the panic that stopped the run early.
	Aborted string `json:"aborted,omitempty" yaml:"aborted,omitempty"`

	// Data is the rendering of the examples value, when requested.
	Data string `json:"data,omitempty" yaml:"data,omitempty"`

	Results []Result `json:"results" yaml:"results"`
}

// Tests returns the number of checks that ran.
func (r *Report) Tests() int {
	return len(r.Results)
}

// Passed reports whether every check succeeded.
func (r *Report) Passed() bool {
	return r.Failures == 0
}

// WriteText writes the report in its plain text form. With full set every
// result is listed, otherwise only failures.
func (r *Report) WriteText(w io.Writer, full bool) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Tests defined in the class: %s:\n---------------------------\n", r.Examples)
	if r.Data != "" {
		fmt.Fprintf(&b, "%s:\n---------------\n%s\n---------------\n", r.Examples, r.Data)
	}
	if r.NoTests {
		b.WriteString("No test methods found.\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	b.WriteString(r.summary())
	if full {
		b.WriteString("Full test results: \n-------------------\n")
		for _, res := range r.Results {
			b.WriteString("\n")
			b.WriteString(res.text())
		}
		b.WriteString("\n--- END OF FULL TEST RESULTS ---\n")
	} else {
		if r.Failures > 0 {
			b.WriteString("Failed test results: \n--------------\n")
			for _, res := range r.Results {
				if !res.Pass {
					b.WriteString("\n")
					b.WriteString(res.text())
				}
			}
			b.WriteString("\n")
		}
		b.WriteString("--- END OF TEST RESULTS ---\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteYAML writes the report as YAML.
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// summary counts tests, failures, and warnings.
func (r *Report) summary() string {
	var b strings.Builder
	switch n := len(r.Results); n {
	case 0:
	case 1:
		b.WriteString("\nRan 1 test.\n")
	default:
		fmt.Fprintf(&b, "\nRan %d tests.\n", n)
	}

	switch r.Failures {
	case 0:
		b.WriteString("All tests passed.\n")
	case 1:
		b.WriteString("1 test failed.\n")
	default:
		fmt.Fprintf(&b, "%d tests failed.\n", r.Failures)
	}

	switch r.Warnings {
	case 0:
		b.WriteString("\n")
	case 1:
		b.WriteString("Issued 1 warning of inexact comparison.\n\n")
	default:
		fmt.Fprintf(&b, "Issued %d warnings of inexact comparison.\n\n", r.Warnings)
	}
	return b.String()
}

func (r Result) text() string {
	var b strings.Builder
	kind := "test"
	if r.Range {
		kind = "range test"
	}
	if r.Pass {
		fmt.Fprintf(&b, "Success in the %s number %d\n", kind, r.Number)
	} else {
		fmt.Fprintf(&b, "Error in %s number %d\n", kind, r.Number)
	}
	b.WriteString(r.Name)
	b.WriteString("\n")
	switch {
	case r.Location != "" && r.Method != "":
		fmt.Fprintf(&b, "at %s (%s)\n", r.Location, r.Method)
	case r.Location != "":
		fmt.Fprintf(&b, "at %s\n", r.Location)
	}
	if r.Warning != "" {
		b.WriteString(r.Warning)
		b.WriteString("\n")
	}
	b.WriteString(r.Detail)
	b.WriteString("\n")
	return b.String()
}

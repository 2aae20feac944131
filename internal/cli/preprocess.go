package cli

import (
	"bytes"
	"fmt"
	"regexp"
	"text/template"

	"github.com/forpus/forpus/pkg/forpus"
)

type TemplateContext struct {
	ENV map[string]string
}

var missingKeyRegex = regexp.MustCompile(`map has no entry for key "(.*?)"`)

// PreprocessYAML replaces {{ .ENV.VAR }} placeholders with values from env or
// a .env file in the working directory.
func PreprocessYAML(input []byte) ([]byte, error) {
	forpus.LoadDotEnv()
	ctx := TemplateContext{ENV: forpus.Environ()}

	tmpl, err := template.New("yaml").Option("missingkey=error").Parse(string(input))
	if err != nil {
		return nil, err
	}

	var output bytes.Buffer
	if err := tmpl.Execute(&output, ctx); err != nil {
		matches := missingKeyRegex.FindStringSubmatch(err.Error())
		if len(matches) == 2 {
			return nil, fmt.Errorf("missing environment variable: %s (set it in your shell or .env file)", matches[1])
		}
		return nil, fmt.Errorf("template error: %w", err)
	}

	return output.Bytes(), nil
}

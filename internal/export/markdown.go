// Package export renders the whole endpoint catalog as a single Markdown
// document, one section per tag and one subsection per endpoint, with
// parameter and response schemas expanded inline.
//
// The output depends only on the document and index order, so exporting an
// unchanged specification twice yields identical bytes.
package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/apidocs/mcp-server/internal/catalog"
	"github.com/apidocs/mcp-server/internal/expander"
	"github.com/apidocs/mcp-server/internal/spec"
)

const notice = "> Generated for AI Context. Contains optimized summaries of all endpoints.\n\n"

// Source is what the exporter needs from the query layer.
type Source interface {
	Endpoints() []catalog.Endpoint
	Definitions() spec.Definitions
	Document() *spec.Document
}

// Markdown returns the rendered document.
func Markdown(src Source) []byte {
	var buf bytes.Buffer
	// bytes.Buffer writes never fail
	_ = Write(&buf, src)
	return buf.Bytes()
}

// Write renders the document to w.
func Write(w io.Writer, src Source) error {
	var buf bytes.Buffer
	defs := src.Definitions()

	fmt.Fprintf(&buf, "# %s Documentation\n\n", title(src.Document()))
	buf.WriteString(notice)

	for _, group := range catalog.GroupByTag(src.Endpoints()) {
		fmt.Fprintf(&buf, "## %s\n\n", group.Tag)
		for _, ep := range group.Endpoints {
			writeEndpoint(&buf, ep, defs)
		}
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func title(doc *spec.Document) string {
	if doc != nil && doc.Info.Title != "" {
		return doc.Info.Title
	}
	return "API"
}

func writeEndpoint(buf *bytes.Buffer, ep catalog.Endpoint, defs spec.Definitions) {
	fmt.Fprintf(buf, "### %s %s\n", ep.Method, ep.Path)
	if ep.Summary != "" {
		fmt.Fprintf(buf, "**Summary**: %s\n", ep.Summary)
	}
	if ep.Description != "" {
		fmt.Fprintf(buf, "**Description**: %s\n", ep.Description)
	}
	if ep.Deprecated {
		buf.WriteString("**Deprecated**: yes\n")
	}

	if len(ep.Parameters) > 0 {
		buf.WriteString("\n**Parameters**:\n")
		for _, p := range ep.Parameters {
			fmt.Fprintf(buf, "- `%s` (%s, %s): %s", p.Name, p.In, expander.ParameterType(p, defs), p.Description)
			if p.Required {
				buf.WriteString(" (Required)")
			}
			buf.WriteString("\n")
		}
	}

	if len(ep.Responses) > 0 {
		buf.WriteString("\n**Responses**:\n")
		for _, r := range ep.Responses {
			fmt.Fprintf(buf, "- `%s`: %s", r.Code, r.Description)
			if r.Schema != nil {
				fmt.Fprintf(buf, "\nSchema: ```\n%s\n```", expander.Expand(r.Schema, defs))
			}
			buf.WriteString("\n")
		}
	}

	buf.WriteString("\n---\n\n")
}

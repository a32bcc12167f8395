package server

import (
	"bytes"
	"context"
	"html/template"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/axisni/chartdash/app/schools"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownConverter renders page descriptions. Besides plain markdown it
// understands two shorthands:
//
//	@dashboard#2025  links to that year's budget breakdown
//	@map#Belfast     links to the schools map filtered to a town
//
// and a code span naming a known school (`Lagan College`) becomes a link
// to the map searching for it.
type MarkdownConverter struct {
	catalog  *schools.Catalog
	goldmark goldmark.Markdown
}

func NewMarkdownConverter(catalog *schools.Catalog) *MarkdownConverter {
	mc := &MarkdownConverter{catalog: catalog}
	mc.goldmark = goldmark.New(
		goldmark.WithExtensions(&dashMarkdownExtension{mc: mc}),
	)
	return mc
}

// ConvertToHTML converts markdown to HTML. Raw HTML in the input is not
// passed through.
func (mc *MarkdownConverter) ConvertToHTML(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := mc.goldmark.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

func (mc *MarkdownConverter) isSchool(name string) bool {
	if mc.catalog == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	found, err := mc.catalog.Search(ctx, name, 5)
	if err != nil {
		return false
	}
	for _, s := range found {
		if strings.EqualFold(s.Name, name) {
			return true
		}
	}
	return false
}

type dashMarkdownExtension struct {
	mc *MarkdownConverter
}

func (e *dashMarkdownExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithASTTransformers(
			util.Prioritized(&dashASTTransformer{mc: e.mc}, 100),
		),
	)
}

type dashASTTransformer struct {
	mc *MarkdownConverter
}

var linkRegex = regexp.MustCompile(`@(dashboard|map)#([\p{L}0-9_-]+)`)

func shorthandTarget(page, arg string) string {
	if page == "dashboard" {
		return "/dashboard?year=" + url.QueryEscape(arg)
	}
	return "/map?city=" + url.QueryEscape(arg)
}

func newLink(dest, label string) *ast.Link {
	link := ast.NewLink()
	link.Destination = []byte(dest)
	link.AppendChild(link, ast.NewString([]byte(label)))
	return link
}

// Transform collects the nodes to rewrite first; replacing nodes while
// walking would cut the walk short at the replaced node.
func (t *dashASTTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	var codeSpans []ast.Node
	var texts []*ast.Text
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch n.Kind() {
		case ast.KindCodeSpan:
			codeSpans = append(codeSpans, n)
			return ast.WalkSkipChildren, nil
		case ast.KindText:
			if bytes.ContainsRune(n.(*ast.Text).Segment.Value(reader.Source()), '@') {
				texts = append(texts, n.(*ast.Text))
			}
		}
		return ast.WalkContinue, nil
	})

	for _, n := range codeSpans {
		var name strings.Builder
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if txt, ok := c.(*ast.Text); ok {
				name.Write(txt.Segment.Value(reader.Source()))
			}
		}
		if name.Len() == 0 || !t.mc.isSchool(name.String()) {
			continue
		}
		link := newLink("/map?name="+url.QueryEscape(name.String()), name.String())
		n.Parent().ReplaceChild(n.Parent(), n, link)
	}

	for _, txtNode := range texts {
		content := string(txtNode.Segment.Value(reader.Source()))
		matches := linkRegex.FindAllStringSubmatchIndex(content, -1)
		if len(matches) == 0 {
			continue
		}

		var newNodes []ast.Node
		lastIndex := 0
		for _, match := range matches {
			start, end := match[0], match[1]
			if start > lastIndex {
				newNodes = append(newNodes, ast.NewString([]byte(content[lastIndex:start])))
			}
			page := content[match[2]:match[3]]
			arg := content[match[4]:match[5]]
			newNodes = append(newNodes, newLink(shorthandTarget(page, arg), arg))
			lastIndex = end
		}
		if lastIndex < len(content) {
			newNodes = append(newNodes, ast.NewString([]byte(content[lastIndex:])))
		}
		if txtNode.SoftLineBreak() {
			newNodes = append(newNodes, ast.NewString([]byte("\n")))
		}

		parent := txtNode.Parent()
		for _, newNode := range newNodes {
			parent.InsertBefore(parent, txtNode, newNode)
		}
		parent.RemoveChild(parent, txtNode)
	}
}

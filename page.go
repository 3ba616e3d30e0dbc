package main

import (
	"embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//go:embed static
var staticFS embed.FS

const (
	collectionID = "collection"
	addFormClass = "add-form"
)

var (
	ErrNoCollection = errors.New("page has no #" + collectionID + " element")
	ErrNoAddForm    = errors.New("page has no ." + addFormClass + " form")
)

// Page is a parsed HTML document with its card container and add-form
// located.
type Page struct {
	root       *html.Node
	collection *html.Node
	form       *html.Node
}

func NewPage(doc string) (*Page, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}
	p := &Page{root: root}
	p.collection = findNode(root, func(n *html.Node) bool {
		return attr(n, "id") == collectionID
	})
	if p.collection == nil {
		return nil, ErrNoCollection
	}
	p.form = findNode(root, func(n *html.Node) bool {
		return n.DataAtom == atom.Form && hasClass(n, addFormClass)
	})
	if p.form == nil {
		return nil, ErrNoAddForm
	}
	return p, nil
}

// NewIndexPage parses the embedded index page.
func NewIndexPage() (*Page, error) {
	doc, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil, err
	}
	return NewPage(string(doc))
}

// AppendCard adds a card for toy after the container's existing children.
func (p *Page) AppendCard(toy Toy) {
	card := element(atom.Div, html.Attribute{Key: "class", Val: "card"})

	name := element(atom.H2)
	name.AppendChild(&html.Node{Type: html.TextNode, Data: toy.Name})

	img := element(atom.Img,
		html.Attribute{Key: "src", Val: toy.Image},
		html.Attribute{Key: "class", Val: "avatar"},
	)

	// no handler and no form: the button does nothing
	del := element(atom.Button,
		html.Attribute{Key: "type", Val: "button"},
		html.Attribute{Key: "class", Val: "btn"},
	)
	del.AppendChild(&html.Node{Type: html.TextNode, Data: "Delete"})

	card.AppendChild(name)
	card.AppendChild(img)
	card.AppendChild(del)
	p.collection.AppendChild(card)
}

// Cards returns the number of element children of the container.
func (p *Page) Cards() int {
	count := 0
	for c := p.collection.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			count++
		}
	}
	return count
}

// FormAction is the URL the add-form submits to.
func (p *Page) FormAction() string {
	return attr(p.form, "action")
}

func (p *Page) Render(w io.Writer) error {
	return html.Render(w, p.root)
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

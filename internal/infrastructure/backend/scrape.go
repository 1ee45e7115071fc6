package backend

import (
	"bytes"
	"strings"

	"wellness/portal/internal/domain/post"

	"golang.org/x/net/html"
)

func parseHTML(body []byte) (*html.Node, error) {
	return html.Parse(bytes.NewReader(body))
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, ok := attr(n, "class")
	if !ok {
		return false
	}
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

// find returns the first element under root, in document order, that match accepts.
func find(root *html.Node, match func(*html.Node) bool) *html.Node {
	if root.Type == html.ElementNode && match(root) {
		return root
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if found := find(child, match); found != nil {
			return found
		}
	}
	return nil
}

// findAll returns every matching element under root without descending into matches.
func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
			return
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

// isFocusable accepts form controls a user can move focus to.
func isFocusable(n *html.Node) bool {
	switch n.Data {
	case "select", "textarea":
		return true
	case "input":
		typ, _ := attr(n, "type")
		typ = strings.ToLower(typ)
		return typ != "hidden" && typ != "submit"
	}
	return false
}

// hiddenInputValue returns the value of the first <input name=name>.
func hiddenInputValue(doc *html.Node, name string) string {
	n := find(doc, func(n *html.Node) bool {
		if n.Data != "input" {
			return false
		}
		v, _ := attr(n, "name")
		return v == name
	})
	if n == nil {
		return ""
	}
	v, _ := attr(n, "value")
	return v
}

// firstErrorField returns the id of the first control inside the first .form-group.has-error.
func firstErrorField(doc *html.Node) string {
	group := find(doc, func(n *html.Node) bool {
		return hasClass(n, "form-group") && hasClass(n, "has-error")
	})
	if group == nil {
		return ""
	}
	control := find(group, isFocusable)
	if control == nil {
		return ""
	}
	id, _ := attr(control, "id")
	return id
}

// parsePosts reads the .post-item elements of the posts page.
func parsePosts(doc *html.Node) []post.Post {
	items := findAll(doc, func(n *html.Node) bool { return hasClass(n, "post-item") })
	posts := make([]post.Post, 0, len(items))
	for _, item := range items {
		p := post.Post{}
		p.ID, _ = attr(item, "data-post-id")
		if t, ok := attr(item, "data-post-type"); ok {
			p.Type = post.Type(t)
		}
		if n := find(item, func(n *html.Node) bool { return hasClass(n, "post-title") }); n != nil {
			p.Title = text(n)
		}
		if n := find(item, func(n *html.Node) bool { return hasClass(n, "post-body") }); n != nil {
			p.Body = text(n)
		}
		if n := find(item, func(n *html.Node) bool { _, ok := attr(n, "data-delete-url"); return ok }); n != nil {
			p.DeleteURL, _ = attr(n, "data-delete-url")
		}
		posts = append(posts, p)
	}
	return posts
}

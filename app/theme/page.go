package theme

import "sync"

// Page is an in-memory document. It stands in for the browser DOM when a page is
// rendered on the server and in tests. Page is not safe for concurrent use, one page
// belongs to one request.
type Page struct {
	attrs     map[string]string
	elems     map[string]*node
	ready     sync.Once
	mutations int
}

type node struct {
	page     *Page
	display  string
	handlers []func()
}

// SetDisplay sets the element's display style.
func (n *node) SetDisplay(value string) {
	n.display = value
	n.page.mutations++
}

// OnClick registers a click handler.
func (n *node) OnClick(fn func()) {
	n.handlers = append(n.handlers, fn)
}

// NewPage makes a page with the given element ids present.
func NewPage(ids ...string) *Page {
	p := &Page{attrs: map[string]string{}, elems: make(map[string]*node, len(ids))}
	for _, id := range ids {
		p.elems[id] = &node{page: p}
	}
	return p
}

// Root returns the page itself, the page is its own root element.
func (p *Page) Root() Root { return p }

// Element returns the element with the given id.
func (p *Page) Element(id string) (Element, bool) {
	n, ok := p.elems[id]
	if !ok {
		return nil, false
	}
	return n, true
}

// Attr returns the root attribute value, empty if not set.
func (p *Page) Attr(name string) string { return p.attrs[name] }

// SetAttr sets the root attribute.
func (p *Page) SetAttr(name, value string) {
	p.attrs[name] = value
	p.mutations++
}

// Ready fires fn once per page, the way a DOM content loaded event does.
// Returns true if fn was called by this invocation.
func (p *Page) Ready(fn func()) bool {
	fired := false
	p.ready.Do(func() {
		fired = true
		fn()
	})
	return fired
}

// Click dispatches click handlers of the element in registration order.
// Returns false if the element is absent.
func (p *Page) Click(id string) bool {
	n, ok := p.elems[id]
	if !ok {
		return false
	}
	for _, h := range n.handlers {
		h()
	}
	return true
}

// Display returns the display style of the element; empty means never set.
func (p *Page) Display(id string) (string, bool) {
	n, ok := p.elems[id]
	if !ok {
		return "", false
	}
	return n.display, true
}

// Handlers returns the number of click handlers registered on the element.
func (p *Page) Handlers(id string) int {
	if n, ok := p.elems[id]; ok {
		return len(n.handlers)
	}
	return 0
}

// Mutations returns the count of attribute and style writes made to the page.
func (p *Page) Mutations() int { return p.mutations }

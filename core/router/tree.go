package router

// Radix tree implementation based on the original work by
// Armon Dadgar in https://github.com/armon/go-radix/blob/master/radix.go
// (MIT licensed). Heavily modified for use as a HTTP routing tree.

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/dmitrymomot/sidemount/core/handler"
)

type methodTyp uint

const (
	mCONNECT methodTyp = 1 << iota
	mDELETE
	mGET
	mHEAD
	mOPTIONS
	mPATCH
	mPOST
	mPUT
	mTRACE
)

var mALL = mCONNECT | mDELETE | mGET | mHEAD |
	mOPTIONS | mPATCH | mPOST | mPUT | mTRACE

var methodMap = map[string]methodTyp{
	http.MethodConnect: mCONNECT,
	http.MethodDelete:  mDELETE,
	http.MethodGet:     mGET,
	http.MethodHead:    mHEAD,
	http.MethodOptions: mOPTIONS,
	http.MethodPatch:   mPATCH,
	http.MethodPost:    mPOST,
	http.MethodPut:     mPUT,
	http.MethodTrace:   mTRACE,
}

var reverseMethodMap = map[methodTyp]string{
	mCONNECT: http.MethodConnect,
	mDELETE:  http.MethodDelete,
	mGET:     http.MethodGet,
	mHEAD:    http.MethodHead,
	mOPTIONS: http.MethodOptions,
	mPATCH:   http.MethodPatch,
	mPOST:    http.MethodPost,
	mPUT:     http.MethodPut,
	mTRACE:   http.MethodTrace,
}

// methodOrder fixes a deterministic iteration order for endpoint maps,
// used by Allow sets, introspection and sub-router grafting.
var methodOrder = []methodTyp{
	mGET, mHEAD, mPOST, mPUT, mPATCH, mDELETE, mCONNECT, mOPTIONS, mTRACE,
}

type nodeTyp uint8

const (
	ntStatic   nodeTyp = iota // /home
	ntParam                   // /{id}
	ntCatchAll                // /static/*
)

// routeParams accumulates captured parameter values during a tree walk.
// Keys are taken from the matched endpoint's pattern once a match lands,
// so key order equals the order of appearance in the pattern.
type routeParams struct {
	keys   []string
	values []string
}

type node[C handler.Context] struct {
	// prefix is the edge label consumed to reach this node from its
	// parent. Param and wildcard nodes store the parameter name instead.
	prefix string

	// endpoints maps method bits to the handler chain registered at this
	// node; nil means the node is purely structural.
	endpoints endpoints[C]

	// children are grouped by node kind and the group order is the match
	// precedence: static first, then param, then wildcard. The static
	// group is kept sorted by label for binary search; the param and
	// wildcard groups hold at most one node each.
	children [ntCatchAll + 1]nodes[C]

	// label is the first byte of the prefix, the discriminator used to
	// pick a static child without comparing whole edges.
	label byte

	typ nodeTyp
}

// endpoints maps method constants to the chain registered for that method.
type endpoints[C handler.Context] map[methodTyp]*endpoint[C]

type endpoint[C handler.Context] struct {
	// chain is the flat, fully composed handler sequence for this route.
	chain handler.Chain[C]

	// pattern is the full registration pattern, kept for introspection,
	// grafting and conflict reporting.
	pattern string

	// paramKeys are the parameter names of pattern, in order of appearance.
	paramKeys []string
}

// insertRoute registers a chain for (method, pattern), creating and
// splitting nodes as needed. It panics with a wrapped sentinel on any
// registration conflict.
func (n *node[C]) insertRoute(method methodTyp, pattern string, chain handler.Chain[C]) *node[C] {
	var parent *node[C]
	search := pattern

	for {
		// Pattern exhausted: this node is the terminal for the route.
		if len(search) == 0 {
			n.setEndpoint(method, pattern, chain)
			return n
		}

		label := search[0]
		var segTyp nodeTyp
		var segName string
		var segEnd int
		if label == '{' || label == '*' {
			segTyp, segName, _, segEnd = patNextSegment(search)
		}

		parent = n
		n = parent.getEdge(segTyp, label, segName, pattern)

		// No edge to follow, attach the remainder as a new branch.
		if n == nil {
			child := &node[C]{typ: ntStatic, label: label, prefix: search}
			hn := parent.addChild(child, search)
			hn.setEndpoint(method, pattern, chain)
			return hn
		}

		if n.typ > ntStatic {
			// Param and wildcard nodes carry the parameter name, not a
			// literal edge; the segment is already on the tree, so just
			// consume it and keep walking.
			search = search[segEnd:]
			continue
		}

		commonPrefix := longestPrefix(search, n.prefix)
		if commonPrefix == len(n.prefix) {
			// Existing edge fully consumed, descend.
			search = search[commonPrefix:]
			continue
		}

		// The patterns diverge inside this edge: split it. The shared
		// prefix becomes the parent edge and the two diverging suffixes
		// become siblings, preserving the existing node's handlers.
		child := &node[C]{typ: ntStatic, label: search[0], prefix: search[:commonPrefix]}
		parent.replaceChild(search[0], child)

		n.label = n.prefix[commonPrefix]
		n.prefix = n.prefix[commonPrefix:]
		child.addChild(n, n.prefix)

		search = search[commonPrefix:]
		if len(search) == 0 {
			// The new pattern is a strict prefix of the old edge.
			child.setEndpoint(method, pattern, chain)
			return child
		}

		subchild := &node[C]{typ: ntStatic, label: search[0], prefix: search}
		hn := child.addChild(subchild, search)
		hn.setEndpoint(method, pattern, chain)
		return hn
	}
}

// addChild appends child under n, decomposing the prefix into a static run
// followed by param/wildcard nodes as needed. It returns the node that
// terminates the prefix, which is where the endpoint belongs.
func (n *node[C]) addChild(child *node[C], prefix string) *node[C] {
	search := prefix
	hn := child

	segTyp, segName, segStart, segEnd := patNextSegment(search)

	switch segTyp {
	case ntStatic:
		// Prefix is entirely literal, nothing to decompose.

	default:
		if segStart == 0 {
			// Prefix begins with the param or wildcard itself.
			child.typ = segTyp
			child.prefix = segName

			if segTyp == ntCatchAll {
				// A wildcard is always terminal, it swallows the rest.
				segStart = len(search)
			} else {
				segStart = segEnd
			}

			if segStart != len(search) {
				// Adjacent segments after a param are necessarily
				// static, split them off as a child edge.
				search = search[segStart:]
				nn := &node[C]{typ: ntStatic, label: search[0], prefix: search}
				hn = child.addChild(nn, search)
			}
		} else {
			// A static run leads up to the param; cut there and hang
			// the param (and whatever follows) underneath.
			child.typ = ntStatic
			child.prefix = search[:segStart]

			search = search[segStart:]
			nn := &node[C]{label: search[0]}
			hn = child.addChild(nn, search)
		}
	}

	n.children[child.typ] = append(n.children[child.typ], child)
	n.children[child.typ].sort()
	return hn
}

func (n *node[C]) replaceChild(label byte, child *node[C]) {
	for i := range n.children[ntStatic] {
		if n.children[ntStatic][i].label == label {
			n.children[ntStatic][i] = child
			child.label = label
			return
		}
	}
	panic(ErrMissingChild)
}

// getEdge returns the child to continue insertion on, or nil when a new
// branch is needed. Binding a different parameter name at an occupied
// param/wildcard position is a registration conflict.
func (n *node[C]) getEdge(ntyp nodeTyp, label byte, name, pattern string) *node[C] {
	if ntyp == ntStatic {
		if len(n.children[ntStatic]) == 0 {
			return nil
		}
		return n.children[ntStatic].findEdge(label)
	}

	nds := n.children[ntyp]
	if len(nds) == 0 {
		return nil
	}
	if nds[0].prefix != name {
		panic(fmt.Errorf("%w: '%s' rebinds parameter '%s' as '%s'",
			ErrParamNameConflict, pattern, nds[0].prefix, name))
	}
	return nds[0]
}

// setEndpoint records the chain for method at this node. Re-registering a
// method, or mixing Any with per-method handlers, is a conflict.
func (n *node[C]) setEndpoint(method methodTyp, pattern string, chain handler.Chain[C]) {
	if n.endpoints == nil {
		n.endpoints = make(endpoints[C])
	}

	paramKeys := patParamKeys(pattern)

	if method&mALL == mALL {
		if len(n.endpoints) > 0 {
			panic(fmt.Errorf("%w: '%s' already has method handlers", ErrDuplicateRoute, pattern))
		}
		ep := &endpoint[C]{chain: chain, pattern: pattern, paramKeys: paramKeys}
		n.endpoints[mALL] = ep
		for _, m := range methodOrder {
			n.endpoints[m] = ep
		}
		return
	}

	if n.endpoints[mALL] != nil {
		panic(fmt.Errorf("%w: '%s' is already registered for all methods", ErrDuplicateRoute, pattern))
	}
	if n.endpoints[method] != nil {
		panic(fmt.Errorf("%w: %s '%s'", ErrDuplicateRoute, reverseMethodMap[method], pattern))
	}
	n.endpoints[method] = &endpoint[C]{chain: chain, pattern: pattern, paramKeys: paramKeys}
}

// findRoute walks the tree for path and returns the terminal node, if any,
// plus the parameters captured on the way. A non-nil node with no endpoint
// for method signals method-not-allowed to the caller.
func (n *node[C]) findRoute(method methodTyp, path string) (*node[C], *routeParams) {
	params := &routeParams{}
	rn := n.findRouteRecursive(method, path, params)
	return rn, params
}

// findRouteRecursive tries the child groups of n in precedence order:
// static, then param, then wildcard. Precedence is a search order, not a
// greedy commit; a failed static descent backtracks into the param branch
// and then the wildcard branch, un-capturing values as it unwinds.
func (n *node[C]) findRouteRecursive(method methodTyp, search string, params *routeParams) *node[C] {
	for t := range n.children {
		ntyp := nodeTyp(t)
		nds := n.children[t]
		if len(nds) == 0 {
			continue
		}

		var xn *node[C]
		xsearch := search

		switch ntyp {
		case ntStatic:
			if xsearch == "" {
				continue
			}
			xn = nds.findEdge(xsearch[0])
			if xn == nil || !strings.HasPrefix(xsearch, xn.prefix) {
				continue
			}
			xsearch = xsearch[len(xn.prefix):]

		case ntParam:
			// A param captures exactly one non-empty segment, never
			// crossing a delimiter.
			if xsearch == "" {
				continue
			}
			p := strings.IndexByte(xsearch, '/')
			if p < 0 {
				p = len(xsearch)
			}
			if p == 0 {
				continue
			}
			xn = nds[0]
			params.values = append(params.values, xsearch[:p])
			xsearch = xsearch[p:]

		default:
			// A wildcard captures the entire remainder, delimiters
			// included, and ends the walk.
			xn = nds[0]
			params.values = append(params.values, xsearch)
			xsearch = ""
		}

		// Exact end of path: a leaf here terminates the search even when
		// the method is missing, so 405 reflects this node's methods.
		if xsearch == "" && xn.isLeaf() {
			ep := xn.endpoints[method]
			if ep == nil {
				// A catch-all registration covers verbs outside the
				// built-in set too, which carry no method bit.
				ep = xn.endpoints[mALL]
			}
			if ep != nil {
				params.keys = append(params.keys, ep.paramKeys...)
			}
			return xn
		}

		if fin := xn.findRouteRecursive(method, xsearch, params); fin != nil {
			return fin
		}

		// Dead end on this branch: drop the capture before backtracking.
		if ntyp > ntStatic && len(params.values) > 0 {
			params.values = params.values[:len(params.values)-1]
		}
	}

	return nil
}

func (n *node[C]) isLeaf() bool {
	return n.endpoints != nil
}

// allowedMethods returns the method names registered at this node,
// in methodOrder, for building a 405 Allow set.
func (n *node[C]) allowedMethods() []string {
	var allowed []string
	for _, m := range methodOrder {
		if n.endpoints[m] != nil {
			allowed = append(allowed, reverseMethodMap[m])
		}
	}
	return allowed
}

// walkRoutes visits every registered endpoint once in tree order. Routes
// registered for all methods are reported once with mALL.
func (n *node[C]) walkRoutes(fn func(method methodTyp, ep *endpoint[C])) {
	if n.endpoints != nil {
		if all := n.endpoints[mALL]; all != nil {
			fn(mALL, all)
		} else {
			for _, m := range methodOrder {
				if ep := n.endpoints[m]; ep != nil {
					fn(m, ep)
				}
			}
		}
	}

	for _, group := range n.children {
		for _, child := range group {
			child.walkRoutes(fn)
		}
	}
}

// patNextSegment returns the kind, parameter name, and start/end offsets of
// the next non-static segment of pattern. A fully static pattern returns
// ntStatic with end = len(pattern). Malformed segments panic with the
// matching sentinel: '{' without '}', empty or nested names, or a wildcard
// anywhere but the terminal position.
func patNextSegment(pattern string) (nodeTyp, string, int, int) {
	ps := strings.IndexByte(pattern, '{')
	ws := strings.IndexByte(pattern, '*')

	if ps < 0 && ws < 0 {
		return ntStatic, "", 0, len(pattern)
	}

	if ws >= 0 && (ps < 0 || ws < ps) {
		name := pattern[ws+1:]
		if strings.ContainsAny(name, "/{}*") {
			panic(fmt.Errorf("%w: '%s'", ErrWildcardPosition, pattern))
		}
		if name == "" {
			name = "*"
		}
		return ntCatchAll, name, ws, len(pattern)
	}

	pe := strings.IndexByte(pattern[ps:], '}')
	if pe < 0 {
		panic(fmt.Errorf("%w: '%s'", ErrParamDelimiter, pattern))
	}
	pe += ps

	name := pattern[ps+1 : pe]
	if name == "" || strings.ContainsAny(name, "{/*") {
		panic(fmt.Errorf("%w: '%s'", ErrParamDelimiter, pattern))
	}

	return ntParam, name, ps, pe + 1
}

// patParamKeys extracts the parameter names of pattern in order, panicking
// on duplicates: names must be unique along any root-to-leaf path. A param
// must span its whole segment; a literal glued onto the closing brace would
// register a route the lookup can never reach, so it is rejected here.
func patParamKeys(pattern string) []string {
	pat := pattern
	var keys []string
	for {
		typ, key, _, e := patNextSegment(pat)
		if typ == ntStatic {
			return keys
		}
		if typ == ntParam && e < len(pat) && pat[e] != '/' {
			panic(fmt.Errorf("%w: '%s' has a literal adjacent to a parameter", ErrParamDelimiter, pattern))
		}
		for i := range keys {
			if keys[i] == key {
				panic(fmt.Errorf("%w: '%s' has duplicate key '%s'", ErrDuplicateParam, pattern, key))
			}
		}
		keys = append(keys, key)
		pat = pat[e:]
	}
}

// longestPrefix finds the length of the shared prefix of two strings.
func longestPrefix(k1, k2 string) int {
	max := len(k1)
	if l := len(k2); l < max {
		max = l
	}
	var i int
	for i = 0; i < max; i++ {
		if k1[i] != k2[i] {
			break
		}
	}
	return i
}

type nodes[C handler.Context] []*node[C]

// sort keeps the static child group ordered by label for findEdge.
func (ns nodes[C]) sort()              { sort.Sort(ns) }
func (ns nodes[C]) Len() int           { return len(ns) }
func (ns nodes[C]) Swap(i, j int)      { ns[i], ns[j] = ns[j], ns[i] }
func (ns nodes[C]) Less(i, j int) bool { return ns[i].label < ns[j].label }

func (ns nodes[C]) findEdge(label byte) *node[C] {
	num := len(ns)
	idx := 0
	i, j := 0, num-1
	for i <= j {
		idx = i + (j-i)/2
		if label > ns[idx].label {
			i = idx + 1
		} else if label < ns[idx].label {
			j = idx - 1
		} else {
			i = num // breaks cond
		}
	}
	if ns[idx].label != label {
		return nil
	}
	return ns[idx]
}

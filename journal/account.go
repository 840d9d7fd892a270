package journal

import "sort"

// Account is a node in the account tree, keyed by its `:`-separated
// hierarchical name. Accounts own a transient aggregate annotation (own and
// subtree totals) that only exists during account-summary reports.
type Account struct {
	// Name is this node's own segment, e.g. "Food" for "Expenses:Food".
	Name   string
	Parent *Account

	children map[string]*Account
	xdata    *AccountXData
}

func newAccount(name string, parent *Account) *Account {
	return &Account{Name: name, Parent: parent}
}

// SyntheticAccount creates a detached account node used for manufactured
// transactions like collapse totals or revaluation lines. It never enters a
// journal's tree and is discarded with the report that created it.
func SyntheticAccount(name string) *Account {
	return newAccount(name, nil)
}

// FullName returns the `:`-joined path from the tree root, excluding the
// unnamed master node.
func (a *Account) FullName() string {
	if a.Parent == nil || a.Parent.Name == "" && a.Parent.Parent == nil {
		return a.Name
	}
	return a.Parent.FullName() + ":" + a.Name
}

// Child resolves a direct child by segment name, creating it if absent.
func (a *Account) Child(segment string) *Account {
	if child, ok := a.children[segment]; ok {
		return child
	}
	if a.children == nil {
		a.children = make(map[string]*Account)
	}
	child := newAccount(segment, a)
	a.children[segment] = child
	return child
}

// Children returns the direct children sorted by name.
func (a *Account) Children() []*Account {
	if len(a.children) == 0 {
		return nil
	}
	names := make([]string, 0, len(a.children))
	for name := range a.children {
		names = append(names, name)
	}
	sort.Strings(names)
	children := make([]*Account, len(names))
	for i, name := range names {
		children[i] = a.children[name]
	}
	return children
}

// walk visits this node and every descendant depth-first, children in name
// order.
func (a *Account) walk(fn func(*Account)) {
	fn(a)
	for _, child := range a.Children() {
		child.walk(fn)
	}
}

// XData returns the account's scratch annotation, allocating it on first use.
func (a *Account) XData() *AccountXData {
	if a.xdata == nil {
		a.xdata = &AccountXData{
			Value: NewBalance(),
			Total: NewBalance(),
		}
	}
	return a.xdata
}

// HasXData reports whether a scratch annotation has been allocated.
func (a *Account) HasXData() bool {
	return a.xdata != nil
}

// ClearXData drops the scratch annotation.
func (a *Account) ClearXData() {
	a.xdata = nil
}

// Package meta is a reflection registry whose values travel as boxes.
//
// Register a struct type once; afterwards its exported fields and methods can
// be read, written and called with box.Box values only:
//
//	meta.Register(Account{})
//	typ := meta.MustLookup("example.com/bank.Account")
//
//	obj := typ.New()                       // box holding *Account
//	f, _ := typ.Field("Balance")
//	f.Set(obj, box.New(100))               // scalar conversion applies
//	bal, _ := f.Get(obj)
//
//	m, _ := typ.Method("Deposit")
//	res, err := m.Invoke(obj, []meta.Arg{meta.ArgOf(box.New(int64(5)))})
//
// A receiver box may hold T, *T or an interface whose dynamic value is *T.
// A box holding T is modified in place.
//
// Names are fully qualified: import path, a dot, type name. Fields and
// methods are found by Go name or by kebab-case key ("HTTPEndpoint" is
// "http-endpoint").
package meta

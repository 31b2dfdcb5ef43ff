package meta

import (
	"reflect"

	"github.com/wippyai/anybox/box"
	"github.com/wippyai/anybox/errors"
)

// Type is the metadata of one registered struct type.
type Type struct {
	Name    string
	Go      reflect.Type
	Fields  []*Field
	Methods []*Method

	fields  map[string]*Field
	methods map[string]*Method
}

func newType(name string, rt reflect.Type) *Type {
	t := &Type{
		Name:    name,
		Go:      rt,
		fields:  make(map[string]*Field),
		methods: make(map[string]*Method),
	}

	for _, sf := range reflect.VisibleFields(rt) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		f := &Field{
			Name:  sf.Name,
			Key:   kebab(sf.Name),
			Type:  sf.Type,
			Index: sf.Index,
			owner: t,
		}
		t.Fields = append(t.Fields, f)
		t.fields[f.Name] = f
		t.fields[f.Key] = f
	}

	// the pointer method set includes value receivers
	pt := reflect.PointerTo(rt)
	for i := 0; i < pt.NumMethod(); i++ {
		rm := pt.Method(i)
		m := newMethod(t, rm)
		t.Methods = append(t.Methods, m)
		t.methods[m.Name] = m
		t.methods[m.Key] = m
	}

	return t
}

// Field finds a field by Go name or key.
func (t *Type) Field(name string) (*Field, error) {
	f, ok := t.fields[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRegistry, "field", t.Name+"."+name)
	}
	return f, nil
}

// Method finds a method by Go name or key.
func (t *Type) Method(name string) (*Method, error) {
	m, ok := t.methods[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseRegistry, "method", t.Name+"."+name)
	}
	return m, nil
}

// New returns a box holding a pointer to a fresh zero T.
func (t *Type) New() *box.Box {
	b := new(box.Box)
	box.SetValue(b, reflect.New(t.Go))
	return b
}

// receiver resolves the addressable T an object box refers to.
func (t *Type) receiver(obj *box.Box, path ...string) (reflect.Value, error) {
	if obj == nil || obj.Empty() {
		return reflect.Value{}, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Path(path...).
			Requested(t.Name).
			Detail("receiver box is empty").
			Build()
	}

	if obj.StaticType() == t.Go {
		return reflect.NewAt(t.Go, obj.Pointer()).Elem(), nil
	}

	pv, err := box.GetValue(obj, reflect.PointerTo(t.Go))
	if err != nil {
		return reflect.Value{}, errors.TypeMismatch(errors.PhaseInvoke, path,
			obj.StaticType().String(), t.Go.String())
	}
	if pv.IsNil() {
		return reflect.Value{}, errors.New(errors.PhaseInvoke, errors.KindInvalidInput).
			Path(path...).
			Requested(t.Name).
			Detail("receiver is a nil pointer").
			Build()
	}
	return pv.Elem(), nil
}

// Field is an exported struct field.
type Field struct {
	Name  string
	Key   string
	Type  reflect.Type
	Index []int

	owner *Type
}

// Get returns a box holding a copy of the field's value.
func (f *Field) Get(obj *box.Box) (*box.Box, error) {
	recv, err := f.owner.receiver(obj, f.owner.Name, f.Name)
	if err != nil {
		return nil, err
	}
	fv, err := f.value(recv)
	if err != nil {
		return nil, err
	}
	out := new(box.Box)
	box.SetValue(out, fv)
	return out, nil
}

// Set assigns the payload of val to the field. The payload is read as the
// field's type, so the box's relaxed reads apply.
func (f *Field) Set(obj, val *box.Box) error {
	recv, err := f.owner.receiver(obj, f.owner.Name, f.Name)
	if err != nil {
		return err
	}
	if val == nil || val.Empty() {
		return errors.New(errors.PhaseAssign, errors.KindInvalidInput).
			Path(f.owner.Name, f.Name).
			Detail("value box is empty").
			Build()
	}

	v, err := box.GetValue(val, f.Type)
	if err != nil {
		return errors.New(errors.PhaseAssign, errors.KindTypeMismatch).
			Path(f.owner.Name, f.Name).
			Stored(val.StaticType().String()).
			Requested(f.Type.String()).
			Cause(err).
			Build()
	}
	fv, err := f.value(recv)
	if err != nil {
		return err
	}
	fv.Set(v)
	return nil
}

func (f *Field) value(recv reflect.Value) (reflect.Value, error) {
	fv, err := recv.FieldByIndexErr(f.Index)
	if err != nil {
		return reflect.Value{}, errors.New(errors.PhaseAccess, errors.KindInvalidInput).
			Path(f.owner.Name, f.Name).
			Cause(err).
			Build()
	}
	return fv, nil
}

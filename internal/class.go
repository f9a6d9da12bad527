package internal

import "fmt"

// metaclass hosts a class's static (class) methods. A class value is
// conceptually an instance of its own metaclass, consulted the same
// way an instance consults its class. The metaclass chain is always
// empty — class methods are not inherited by subclasses, matching
// LoxClass's own metaclass construction, which never links a
// subclass's metaclass to its superclass's.
type metaclass struct {
	name    string
	methods map[string]*function
}

func (m *metaclass) findMethod(name string) *function {
	return m.methods[name]
}

// class is a callable value: calling it constructs an instance.
type class struct {
	name       string
	superclass *class
	methods    map[string]*function
	meta       *metaclass
}

func newClass(name string, superclass *class, methods map[string]*function, classMethods map[string]*function) *class {
	return &class{
		name:       name,
		superclass: superclass,
		methods:    methods,
		meta:       &metaclass{name: name + "_class", methods: classMethods},
	}
}

func (c *class) findMethod(name string) *function {
	if method, ok := c.methods[name]; ok {
		return method
	}
	if c.superclass != nil {
		return c.superclass.findMethod(name)
	}
	return nil
}

func (c *class) arity() int {
	if init := c.findMethod("init"); init != nil {
		return init.arity()
	}
	return 0
}

func (c *class) call(in *interpreter, arguments []interface{}) interface{} {
	obj := &instance{class: c, fields: make(map[string]interface{})}
	if init := c.findMethod("init"); init != nil {
		init.bind(obj).call(in, arguments)
	}
	return obj
}

// get resolves a static (class) method lookup on the class itself,
// e.g. `Math.square(4)`, consulted by the normal instance-method-style
// lookup on the class object's metaclass.
func (c *class) get(tk *token) (interface{}, bool) {
	if method := c.meta.findMethod(tk.lexeme); method != nil {
		return method, true
	}
	return nil, false
}

func (c *class) String() string {
	return c.name
}

// instance is a runtime object: a class pointer plus a field map.
// Fields shadow methods on read.
type instance struct {
	class  *class
	fields map[string]interface{}
}

func (i *instance) get(tk *token) (interface{}, bool) {
	if v, ok := i.fields[tk.lexeme]; ok {
		return v, true
	}
	if method := i.class.findMethod(tk.lexeme); method != nil {
		return method.bind(i), true
	}
	return nil, false
}

func (i *instance) set(name *token, value interface{}) {
	i.fields[name.lexeme] = value
}

func (i *instance) String() string {
	return fmt.Sprintf("%s instance", i.class.name)
}

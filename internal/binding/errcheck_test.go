package binding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olehluchkiv/oocbind/internal/ooc"
)

const devObjects = `{
  "Dev": {"class": "Typedef", "target": "POINTER(void)"},
  "dev_open": {"class": "Function", "name": "dev_open",
    "arguments": [["path", "POINTER(char)"]], "rettype": "int"},
  "dev_reset": {"class": "Function", "name": "dev_reset",
    "arguments": [["dev", "Dev"], ["hard", "int"]], "rettype": "int"},
  "dev_close": {"class": "Function", "name": "dev_close",
    "arguments": [["dev", "Dev"]]},
  "dev_log": {"class": "Function", "name": "dev_log",
    "arguments": [["fmt", "POINTER(char)"]], "rettype": "int", "varargs": true}
}`

const devErrors = `
errors:
  codes:
    - {name: DEV_EBUSY, message: "device busy"}
    - {name: DEV_EIO}
  check: ["dev_.*"]
`

func TestErrors_CheckFunctionBody(t *testing.T) {
	c, err := run(t, devObjects, devErrors)
	require.NoError(t, err)

	d, ok := c.Decls().Get("checkError")
	require.True(t, ok)
	fn := d.(*ooc.Function)
	assert.Equal(t, []ooc.Arg{{Name: "code", Type: "Int"}}, fn.Args)
	assert.Equal(t, "Int", fn.Return)
	assert.Equal(t, []string{
		"match (code) {",
		`    case 0 => return code`,
		`    case DEV_EBUSY => BindingException new("device busy") throw()`,
		`    case DEV_EIO => BindingException new("DEV_EIO") throw()`,
		`    case => BindingException new("unknown error") throw()`,
		"}",
		"code",
	}, fn.Body)
}

func TestErrors_ExceptionClass(t *testing.T) {
	out := generate(t, devObjects, devErrors)
	assert.Contains(t, out, "BindingException: class extends Exception {\n"+
		"    init: func ~withMsg (msg: String) {\n"+
		"        super(msg)\n"+
		"    }\n"+
		"}\n")
}

func TestErrors_CheckedTopLevelFunction(t *testing.T) {
	c, err := run(t, devObjects, devErrors)
	require.NoError(t, err)

	d, ok := c.Decls().Get("__dev_reset")
	require.True(t, ok)
	assert.Equal(t, &ooc.Function{
		Name:      "__dev_reset",
		Modifiers: []string{"extern(dev_reset)"},
		Args:      []ooc.Arg{{Name: "dev", Type: "Dev"}, {Name: "hard", Type: "Int"}},
		Return:    "Int",
	}, d)

	d, _ = c.Decls().Get("devReset")
	fn := d.(*ooc.Function)
	assert.Empty(t, fn.Modifiers)
	assert.Equal(t, []string{"return checkError(__dev_reset(dev, hard))"}, fn.Body)

	out, err := c.Render()
	require.NoError(t, err)
	assert.Contains(t, out, "devReset: func (dev: Dev, hard: Int) -> Int {\n"+
		"    return checkError(__dev_reset(dev, hard))\n"+
		"}\n")
}

func TestErrors_CheckedMethods(t *testing.T) {
	c, err := run(t, devObjects, devErrors+`
objects:
  - name: Dev
    tag: Dev
    static_methods: ["dev_(open)"]
    methods: ["dev_(reset)"]
`)
	require.NoError(t, err)

	d, _ := c.Decls().Get("Dev")
	m, ok := d.(ooc.Wrapper).Member("reset")
	require.True(t, ok)
	reset := m.(*ooc.Function)
	assert.Empty(t, reset.Modifiers)
	assert.Equal(t, []ooc.Arg{{Name: "hard", Type: "Int"}}, reset.Args)
	assert.Equal(t, []string{"return checkError(__dev_reset(this, hard))"}, reset.Body)

	m, ok = d.(ooc.Wrapper).Member("open")
	require.True(t, ok)
	open := m.(*ooc.Function)
	assert.Equal(t, []string{"static"}, open.Modifiers)
	assert.Equal(t, []string{"return checkError(__dev_open(path))"}, open.Body)

	_, ok = c.Decls().Get("__dev_open")
	assert.True(t, ok)
}

func TestErrors_UncheckableFunctionsAreSkipped(t *testing.T) {
	c, err := run(t, devObjects, devErrors)
	require.NoError(t, err)

	skipped := map[string]string{
		"devClose": "dev_close",
		"devLog":   "dev_log",
	}
	for name, native := range skipped {
		d, ok := c.Decls().Get(name)
		require.True(t, ok, name)
		fn := d.(*ooc.Function)
		assert.Nil(t, fn.Body, name)
		assert.Equal(t, []string{"extern(" + native + ")"}, fn.Modifiers, name)

		_, ok = c.Decls().Get(rawPrefix + native)
		assert.False(t, ok, native)
	}
}

func TestErrors_CheckRulesSelect(t *testing.T) {
	c, err := run(t, devObjects, `errors: {check: ["dev_(reset)"]}`)
	require.NoError(t, err)

	_, ok := c.Decls().Get("__dev_reset")
	assert.True(t, ok)
	_, ok = c.Decls().Get("__dev_open")
	assert.False(t, ok)
}

func TestErrors_ArgTypeRuleNameMissIsNotSelected(t *testing.T) {
	c, err := run(t, devObjects, `errors: {check: [{by_arg_type: Dev, index: 0, name: "dev_(reset)"}]}`)
	require.NoError(t, err, "dev_close takes a Dev but is not named by the rule")

	_, ok := c.Decls().Get("__dev_reset")
	assert.True(t, ok)
	_, ok = c.Decls().Get("__dev_close")
	assert.False(t, ok)
}

func TestErrors_CustomExceptionNames(t *testing.T) {
	c, err := run(t, `{
		"DevError": {"class": "Typedef", "target": "int"},
		"dev_reset": {"class": "Function", "name": "dev_reset", "arguments": [["dev", "int"]], "rettype": "int"}
	}`, `
errors:
  exception: DevError
  function: devCheck
  success: ["0", "1"]
  check: ["dev_.*"]
`)
	require.NoError(t, err)

	e, _ := c.reg.Get("DevError")
	assert.Equal(t, "DevError_", e.BindingName(), "the exception name is reserved")

	d, ok := c.Decls().Get("DevError")
	require.True(t, ok)
	assert.IsType(t, &ooc.Class{}, d)

	d, _ = c.Decls().Get("devCheck")
	body := d.(*ooc.Function).Body
	assert.Equal(t, "    case 0 => return code", body[1])
	assert.Equal(t, "    case 1 => return code", body[2])
	assert.Equal(t, `    case => DevError new("unknown error") throw()`, body[3])

	d, _ = c.Decls().Get("devReset")
	assert.Equal(t, []string{"return devCheck(__dev_reset(dev))"}, d.(*ooc.Function).Body)
}

func TestErrors_NoErrorsSection(t *testing.T) {
	c, err := run(t, devObjects, "")
	require.NoError(t, err)
	_, ok := c.Decls().Get("BindingException")
	assert.False(t, ok)
	_, ok = c.Decls().Get("checkError")
	assert.False(t, ok)
}

package binding

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/olehluchkiv/oocbind/internal/config"
	"github.com/olehluchkiv/oocbind/internal/ooc"
	"github.com/olehluchkiv/oocbind/internal/registry"
)

// rawPrefix names the plain extern declarations that checked wrappers call.
const rawPrefix = "__"

const caseIndent = "    "

func (c *Client) injectErrorChecks() error {
	ec := c.cfg.Errors
	if ec == nil {
		return nil
	}

	exc := &ooc.Class{Name: ec.Exception, Extends: "Exception"}
	ctor := &ooc.Function{
		Name:   "init",
		Suffix: "withMsg",
		Args:   []ooc.Arg{{Name: "msg", Type: "String"}},
		Body:   []string{"super(msg)"},
	}
	if err := exc.AddMember(ctor); err != nil {
		return err
	}
	if err := c.decls.Add(exc); err != nil {
		return errors.Mark(err, config.ErrMalformed)
	}
	if err := c.decls.Add(checkFunction(ec)); err != nil {
		return errors.Mark(err, config.ErrMalformed)
	}

	checked := 0
	for _, fn := range c.reg.Functions() {
		k := fn.Kind.(registry.Function)
		argTypes := make([]string, len(k.Arguments))
		for i, a := range k.Arguments {
			argTypes[i] = a.Type
		}
		selected := false
		for _, rule := range ec.Check {
			if rule.Selects(fn.Name, argTypes) {
				selected = true
				break
			}
		}
		if !selected {
			continue
		}
		ok, err := c.check(fn, k, ec.Function)
		if err != nil {
			return errors.Wrapf(err, "check %s", fn.Name)
		}
		if ok {
			checked++
		}
	}
	c.logger.Debug("error checks injected", "functions", checked)
	return nil
}

// checkFunction renders
//
//	checkError: func (code: Int) -> Int {
//	    match (code) { ... }
//	    code
//	}
func checkFunction(ec *config.Errors) *ooc.Function {
	body := []string{"match (code) {"}
	for _, s := range ec.Success {
		body = append(body, caseIndent+"case "+s+" => return code")
	}
	for _, code := range ec.Codes {
		msg := code.Message
		if msg == "" {
			msg = code.Name
		}
		body = append(body, caseIndent+"case "+code.Name+" => "+raise(ec.Exception, msg))
	}
	body = append(body, caseIndent+"case => "+raise(ec.Exception, "unknown error"), "}", "code")

	return &ooc.Function{
		Name:   ec.Function,
		Args:   []ooc.Arg{{Name: "code", Type: "Int"}},
		Return: "Int",
		Body:   body,
	}
}

func raise(exception, msg string) string {
	return exception + " new(" + strconv.Quote(msg) + ") throw()"
}

// check rewrites the wrapper of fn to pass the native result through the
// check function. The native symbol stays reachable through a plain extern
// declaration. Functions returning nothing or taking varargs are skipped.
func (c *Client) check(fn *registry.Entity, k registry.Function, checkFn string) (bool, error) {
	node, ok := fn.Wrapper().(*ooc.Function)
	if !ok {
		return false, errors.AssertionFailedf("%s: wrapper is %T", fn.Tag, fn.Wrapper())
	}
	if node.Return == "" || node.Return == "Void" || k.Varargs {
		c.logger.Warn("function cannot be checked", "function", fn.Name, "return", node.Return, "varargs", k.Varargs)
		return false, nil
	}

	native, ok := fn.NativeName()
	if !ok {
		return false, errors.AssertionFailedf("%s: function without native name", fn.Tag)
	}
	raw, err := c.functionNode(fn, k)
	if err != nil {
		return false, err
	}
	raw.Name = rawPrefix + native
	raw.Modifiers = []string{ooc.Extern(native)}
	if err := c.decls.Add(raw); err != nil {
		return false, err
	}

	args := make([]string, len(raw.Args))
	for i, a := range raw.Args {
		args[i] = a.Name
	}
	if cl, claimed := c.claims[fn.Tag]; claimed && !cl.static {
		args[cl.receiver] = "this"
	}

	node.StripExtern()
	node.Body = []string{"return " + checkFn + "(" + raw.Name + "(" + strings.Join(args, ", ") + "))"}
	c.logger.Debug("function checked", "function", fn.Name)
	return true, nil
}

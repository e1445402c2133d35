package interp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mna/lox/lang/interp"
	"github.com/mna/lox/lang/parser"
	"github.com/mna/lox/lang/reporter"
	"github.com/mna/lox/lang/resolver"
	"github.com/mna/lox/lang/scanner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run scans, parses, resolves and interprets src against a fresh
// Interpreter, returning everything written to stdout and whatever error
// Run produced (nil on success).
func run(t *testing.T, src string) (string, error) {
	t.Helper()
	rep := reporter.New(nil)
	s := scanner.New([]byte(src), rep)
	toks := s.ScanTokens()
	p := parser.New(toks, nil, rep, parser.Mode(0))
	prog := p.ParseProgram()
	require.False(t, rep.HadError(), "unexpected static error")

	bindings := resolver.Resolve(prog, rep, resolver.Strict, nil)
	require.False(t, rep.HadError(), "unexpected resolve error")

	var out bytes.Buffer
	in := interp.New(rep, &out, func() float64 { return 42 })
	in.SetBindings(bindings)
	err := in.Run(prog)
	return out.String(), err
}

func TestPrintArithmeticAndStringConcat(t *testing.T) {
	out, err := run(t, `
		print 1 + 2 * 3;
		print "foo" + "bar";
	`)
	require.NoError(t, err)
	assert.Equal(t, "7\nfoobar\n", out)
}

func TestMixedPlusOperandsIsARuntimeError(t *testing.T) {
	_, err := run(t, `print 1 + "a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be two numbers or two strings.")
}

func TestComparisonRequiresNumbers(t *testing.T) {
	_, err := run(t, `print "a" < "b";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operands must be numbers.")
}

func TestUnaryMinusRequiresNumber(t *testing.T) {
	_, err := run(t, `print -"a";`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Operand must be a number.")
}

func TestLogicalOperatorsReturnOperandValue(t *testing.T) {
	out, err := run(t, `
		print nil or "default";
		print "first" and "second";
	`)
	require.NoError(t, err)
	assert.Equal(t, "default\nsecond\n", out)
}

func TestTernaryEvaluatesOnlyTakenBranch(t *testing.T) {
	out, err := run(t, `print true ? "yes" : "no";`)
	require.NoError(t, err)
	assert.Equal(t, "yes\n", out)
}

func TestVariableShadowingInBlock(t *testing.T) {
	out, err := run(t, `
		var a = "global";
		{
			var a = "local";
			print a;
		}
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "local\nglobal\n", out)
}

func TestWhileLoopAndAssignment(t *testing.T) {
	out, err := run(t, `
		var i = 0;
		while (i < 3) {
			print i;
			i = i + 1;
		}
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestForLoop(t *testing.T) {
	out, err := run(t, `
		for (var i = 0; i < 3; i = i + 1) print i;
	`)
	require.NoError(t, err)
	assert.Equal(t, "0\n1\n2\n", out)
}

func TestFunctionCallAndReturn(t *testing.T) {
	out, err := run(t, `
		fun add(a, b) {
			return a + b;
		}
		print add(1, 2);
	`)
	require.NoError(t, err)
	assert.Equal(t, "3\n", out)
}

func TestClosureCapturesEnclosingVariable(t *testing.T) {
	out, err := run(t, `
		fun makeCounter() {
			var count = 0;
			fun increment() {
				count = count + 1;
				return count;
			}
			return increment;
		}
		var counter = makeCounter();
		print counter();
		print counter();
		print counter();
	`)
	require.NoError(t, err)
	assert.Equal(t, "1\n2\n3\n", out)
}

func TestCallingNonCallableIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		x();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Can only call functions and classes.")
}

func TestWrongArityIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		fun f(a, b) { return a + b; }
		f(1);
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Expected 2 arguments but got 1.")
}

func TestClassInstantiationFieldsAndMethods(t *testing.T) {
	out, err := run(t, `
		class Greeter {
			greet(name) {
				return "hello, " + name;
			}
		}
		var g = Greeter();
		print g.greet("world");
		g.extra = "field";
		print g.extra;
	`)
	require.NoError(t, err)
	assert.Equal(t, "hello, world\nfield\n", out)
}

func TestInitAlwaysReturnsInstanceEvenWithBareReturn(t *testing.T) {
	out, err := run(t, `
		class Box {
			init(v) {
				this.v = v;
				return;
			}
		}
		var b = Box(7);
		print b.v;
	`)
	require.NoError(t, err)
	assert.Equal(t, "7\n", out)
}

func TestCommaOperatorEvaluatesLeftForSideEffectsAndReturnsRight(t *testing.T) {
	out, err := run(t, `
		var a = 0;
		print (a = 1, a = 2);
		print a;
	`)
	require.NoError(t, err)
	assert.Equal(t, "2\n2\n", out)
}

func TestRuntimeErrorInsideInitializerAbortsConstruction(t *testing.T) {
	_, err := run(t, `
		class C {
			init() {
				print undefinedVar;
			}
		}
		C();
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined variable")
}

func TestUndefinedPropertyIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		class Empty {}
		var e = Empty();
		print e.nope;
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Undefined property")
}

func TestGetOnNonInstanceIsARuntimeError(t *testing.T) {
	_, err := run(t, `
		var x = 1;
		print x.foo;
	`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Only instances have properties.")
}

func TestMethodThisBindingSurvivesAsAFreeStandingValue(t *testing.T) {
	out, err := run(t, `
		class Thing {
			getName() {
				return this.name;
			}
		}
		var t = Thing();
		t.name = "widget";
		var method = t.getName;
		print method();
	`)
	require.NoError(t, err)
	assert.Equal(t, "widget\n", out)
}

func TestClockNativeFunctionIsInjectable(t *testing.T) {
	out, err := run(t, `print clock();`)
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)
}

func TestNaNEqualsItself(t *testing.T) {
	out, err := run(t, `print (0/0 == 0/0);`)
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)
}

func TestStringifyOfNumbersAndNil(t *testing.T) {
	out, err := run(t, `
		print 1;
		print 1.5;
		print nil;
		print true;
	`)
	require.NoError(t, err)
	assert.Equal(t, strings.Join([]string{"1", "1.5", "nil", "true", ""}, "\n"), out)
}

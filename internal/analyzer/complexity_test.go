package analyzer

import (
	"testing"

	"github.com/ludo-technologies/codopsy/domain"
	"github.com/ludo-technologies/codopsy/internal/testutil"
)

func analyzeTS(t *testing.T, code string) domain.FileComplexity {
	t.Helper()
	return AnalyzeComplexity(testutil.ParseTS(t, code))
}

func findRecord(t *testing.T, fc domain.FileComplexity, name string) domain.FunctionRecord {
	t.Helper()
	for _, fn := range fc.Functions {
		if fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found in %+v", name, fc.Functions)
	return domain.FunctionRecord{}
}

func TestCyclomaticComplexity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"empty function", `function foo() {}`, 1},
		{"straight line", `function foo(a, b) { const c = a + b; return c * 2; }`, 1},
		{"if else", `function foo(x: number) { if (x > 0) { return 1; } else { return 0; } }`, 2},
		{"for loop", `function foo() { for (let i = 0; i < 3; i++) {} }`, 2},
		{"for of and for in", `function foo(a: any) { for (const x of a) {} for (const k in a) {} }`, 3},
		{"while and do", `function foo() { while (a) {} do {} while (b); }`, 3},
		{"ternary", `function foo(x: number) { return x > 0 ? 1 : 0; }`, 2},
		{"catch", `function foo() { try { a(); } catch (e) { b(); } }`, 2},
		{"each logical operator counts", `function foo(a, b, c) { return a && b && c || d; }`, 4},
		{"nullish does not count", `function foo(a, b) { return a ?? b; }`, 1},
		{
			"switch cases without default",
			`function foo(x: string) {
				switch (x) {
					case 'a': return 1;
					case 'b': return 2;
					case 'c': return 3;
					default: return 0;
				}
			}`,
			4,
		},
		{
			"nested function not counted",
			`function outer(x) {
				if (x) {}
				const inner = () => { if (a) {} if (b) {} };
			}`,
			2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := analyzeTS(t, tt.code)
			if len(fc.Functions) == 0 {
				t.Fatal("no functions found")
			}
			if got := fc.Functions[0].Complexity; got != tt.expected {
				t.Errorf("cyclomatic = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCognitiveComplexity(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		expected int
	}{
		{"empty function", `function foo() {}`, 0},
		{"single if", `function foo(x: number) { if (x > 0) { return x; } return 0; }`, 1},
		{"if else", `function foo(x: number) { if (x > 0) { return x; } else { return 0; } }`, 2},
		{"if else-if else", `function foo(x: number) { if (x > 0) { return 1; } else if (x < 0) { return -1; } else { return 0; } }`, 3},
		{"nested if", `function foo(x: number, y: number) { if (x > 0) { if (y > 0) { return 1; } } return 0; }`, 3},
		{"for with nested if", `function foo(arr: number[]) { for (const x of arr) { if (x > 0) { console.log(x); } } }`, 3},
		{"same operator run", `function foo(a: boolean, b: boolean, c: boolean) { return a && b && c; }`, 1},
		{"operator switch", `function foo(a: boolean, b: boolean, c: boolean) { return a && b || c; }`, 2},
		{"or then and", `function foo(a: boolean, b: boolean, c: boolean) { return a || b && c; }`, 2},
		{"nullish alone", `function foo(a: any, b: any) { return a ?? b; }`, 1},
		{"nullish then or", `function foo(a: any, b: any, c: any) { return (a ?? b) || c; }`, 2},
		{"parenthesized run is its own chain", `function foo(a: boolean, b: boolean, c: boolean) { return (a && b) || c; }`, 2},
		{"parenthesized same operator", `function foo(a: boolean, b: boolean, c: boolean) { return (a && b) && c; }`, 2},
		{"parenthesized right operand", `function foo(a: boolean, b: boolean, c: boolean) { return a && (b || c); }`, 2},
		{
			"switch counted once",
			`function foo(x: string) {
				switch (x) {
					case 'a': return 1;
					case 'b': return 2;
					case 'c': return 3;
					default: return 0;
				}
			}`,
			1,
		},
		{
			"deep nesting accumulates",
			`function foo(x: number) {
				if (x > 0) {
					for (let i = 0; i < x; i++) {
						if (i % 2 === 0) {
							console.log(i);
						}
					}
				}
			}`,
			6,
		},
		{"catch", `function foo() { try { doSomething(); } catch (e) { handleError(e); } }`, 1},
		{
			"labeled break",
			`function foo() {
				outer: for (let i = 0; i < 10; i++) {
					for (let j = 0; j < 10; j++) {
						if (j === 5) {
							break outer;
						}
					}
				}
			}`,
			7,
		},
		{"unlabeled break free", `function foo() { while (a) { break; } }`, 1},
		{"while", `function foo() { let i = 0; while (i < 10) { i++; } }`, 1},
		{"do while", `function foo() { let i = 0; do { i++; } while (i < 10); }`, 1},
		{"for in", `function foo(obj: any) { for (const key in obj) { console.log(key); } }`, 1},
		{"ternary", `function foo(x: number) { return x > 0 ? x : -x; }`, 1},
		{"nested ternary", `function foo(x: number, y: number) { return x > 0 ? (y > 0 ? 1 : 2) : 0; }`, 3},
		{"optional chaining", `function foo(obj: any) { return obj?.prop; }`, 1},
		{"optional chain links", `function foo(obj: any) { return obj?.a?.b?.c; }`, 3},
		{"optional call", `function foo(fn: any) { return fn?.(); }`, 1},
		{"logical in if test", `function foo(a: boolean, b: boolean) { if (a && b) {} }`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fc := analyzeTS(t, tt.code)
			if len(fc.Functions) == 0 {
				t.Fatal("no functions found")
			}
			if got := fc.Functions[0].CognitiveComplexity; got != tt.expected {
				t.Errorf("cognitive = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestCognitiveComplexity_NestedFunctions(t *testing.T) {
	t.Run("inner function scored separately at depth 1", func(t *testing.T) {
		fc := analyzeTS(t, `function outer() {
			if (true) {}
			function inner() {
				if (true) {}
				if (true) {}
			}
		}`)
		if got := findRecord(t, fc, "outer").CognitiveComplexity; got != 1 {
			t.Errorf("outer cognitive = %d, want 1", got)
		}
		if got := findRecord(t, fc, "inner").CognitiveComplexity; got != 4 {
			t.Errorf("inner cognitive = %d, want 4", got)
		}
	})

	t.Run("depth accumulates across function boundaries", func(t *testing.T) {
		fc := analyzeTS(t, `
			function outer() {
				function middle() {
					function deepInner() {
						if (true) {}
					}
				}
			}`)
		if got := findRecord(t, fc, "deepInner").CognitiveComplexity; got != 3 {
			t.Errorf("deepInner cognitive = %d, want 3", got)
		}
	})

	t.Run("arrow inherits depth", func(t *testing.T) {
		fc := analyzeTS(t, `
			const outer = () => {
				const inner = () => {
					if (true) {}
				};
			};`)
		if got := findRecord(t, fc, "inner").CognitiveComplexity; got != 2 {
			t.Errorf("inner cognitive = %d, want 2", got)
		}
	})

	t.Run("enclosing constructs add to start depth", func(t *testing.T) {
		fc := analyzeTS(t, `
			function outer(items: number[]) {
				for (const x of items) {
					if (x) {
						items.forEach((y) => { if (y) {} });
					}
				}
			}`)
		// for: 1, if: 1+1 = 3 for outer; arrow starts at 2+1 = 3, its if scores 1+3
		if got := findRecord(t, fc, "outer").CognitiveComplexity; got != 3 {
			t.Errorf("outer cognitive = %d, want 3", got)
		}
		if got := findRecord(t, fc, "(anonymous)").CognitiveComplexity; got != 4 {
			t.Errorf("callback cognitive = %d, want 4", got)
		}
	})
}

func TestAnalyzeComplexity_FileLevel(t *testing.T) {
	fc := analyzeTS(t, `
		function simple() {}
		function complex(x: number) {
			if (x > 0) {
				if (x > 10) { return x; }
			}
			return 0;
		}`)
	if len(fc.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(fc.Functions))
	}
	if fc.Cognitive != 3 {
		t.Errorf("file cognitive = %d, want 3", fc.Cognitive)
	}
	if fc.Cyclomatic != 3 {
		t.Errorf("file cyclomatic = %d, want 3", fc.Cyclomatic)
	}
	if got := findRecord(t, fc, "simple").CognitiveComplexity; got != 0 {
		t.Errorf("simple cognitive = %d, want 0", got)
	}

	empty := analyzeTS(t, "const x = 1;\nconst y = 2;")
	if empty.Cyclomatic != 0 || empty.Cognitive != 0 || len(empty.Functions) != 0 {
		t.Errorf("file without functions should be all zero, got %+v", empty)
	}
	if empty.Functions == nil {
		t.Error("Functions should be an empty slice, not nil")
	}
}

func TestFunctionNames(t *testing.T) {
	fc := analyzeTS(t, `
		function declared() {}
		const arrow = () => {};
		const expr = function named() {};
		const obj = { prop: () => {}, method() {} };
		class Widget {
			constructor() {}
			get size() { return 1; }
			set size(v) {}
			[Symbol.iterator]() {}
			render() {}
		}
		run(function () {});
		export default function () {}
	`)

	want := []string{
		"declared", "arrow", "expr", "prop", "method", "constructor",
		"get size", "set size", "[computed]", "render", "(anonymous)", "(anonymous)",
	}
	if len(fc.Functions) != len(want) {
		names := make([]string, 0, len(fc.Functions))
		for _, f := range fc.Functions {
			names = append(names, f.Name)
		}
		t.Fatalf("got functions %v, want %v", names, want)
	}
	for i, name := range want {
		if fc.Functions[i].Name != name {
			t.Errorf("function %d name = %q, want %q", i, fc.Functions[i].Name, name)
		}
	}
}

func TestFunctionRecordLine(t *testing.T) {
	fc := analyzeTS(t, "\n\nfunction third() {}\n")
	if got := findRecord(t, fc, "third").Line; got != 3 {
		t.Errorf("line = %d, want 3", got)
	}
}

func TestFunctionKeywordIsNotARecord(t *testing.T) {
	src := "function f(a) { if (a) { return 1; } return 0; }\nconst g = function () {};\n"
	for _, filename := range []string{"a.js", "a.ts", "a.tsx"} {
		t.Run(filename, func(t *testing.T) {
			fc := AnalyzeComplexity(testutil.ParseSource(t, filename, src))
			if len(fc.Functions) != 2 {
				t.Fatalf("expected 2 functions, got %+v", fc.Functions)
			}
			want := []domain.FunctionRecord{
				{Name: "f", Line: 1, Complexity: 2, CognitiveComplexity: 1},
				{Name: "g", Line: 2, Complexity: 1, CognitiveComplexity: 0},
			}
			for i, w := range want {
				if fc.Functions[i] != w {
					t.Errorf("function %d = %+v, want %+v", i, fc.Functions[i], w)
				}
			}
		})
	}
}

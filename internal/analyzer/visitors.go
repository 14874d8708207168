package analyzer

import (
	"github.com/nexuslang/nexus/internal/ast"
)

func (a *analyzer) VisitProgram(n *ast.Program) {
	a.walkStatements(n.Statements)
}

func (a *analyzer) VisitLetStatement(n *ast.LetStatement) {
	a.walk(n.Value)
	if n.Const && n.Value == nil {
		a.warnf(n.Token, "constant %q declared without a value", n.Name.Value)
	}
	a.declare(n.Name.Value, n.Name.Token, n.Const, false)
}

func (a *analyzer) VisitAssignStatement(n *ast.AssignStatement) {
	a.walk(n.Value)
	b := a.lookup(n.Name.Value)
	if b == nil {
		a.warnf(n.Name.Token, "assignment to undefined variable %q", n.Name.Value)
		return
	}
	if b.isConst {
		a.warnf(n.Name.Token, "assignment to constant %q", n.Name.Value)
	}
	b.reassigned = true
	b.used = true
}

func (a *analyzer) VisitFunctionStatement(n *ast.FunctionStatement) {
	a.declare(n.Name.Value, n.Name.Token, false, true)

	a.pushScope()
	for _, p := range n.Parameters {
		a.declare(p.Name, p.Token, false, false)
		// Parameters count as used; requiring every parameter would
		// punish callback signatures.
		a.scopes[len(a.scopes)-1].names[p.Name].used = true
	}
	a.walkStatements(n.Body.Statements)
	a.popScope()

	if len(n.Body.Statements) == 0 {
		a.suggestf(n.Token, "function %q has an empty body", n.Name.Value)
	}
}

func (a *analyzer) VisitReturnStatement(n *ast.ReturnStatement) {
	a.walk(n.Value)
}

func (a *analyzer) VisitBreakStatement(n *ast.BreakStatement) {
	if a.loopDepth == 0 {
		a.warnf(n.Token, "break outside of a loop")
	}
}

func (a *analyzer) VisitContinueStatement(n *ast.ContinueStatement) {
	if a.loopDepth == 0 {
		a.warnf(n.Token, "continue outside of a loop")
	}
}

func (a *analyzer) VisitIfStatement(n *ast.IfStatement) {
	a.walk(n.Condition)
	if lit, ok := n.Condition.(*ast.BooleanLiteral); ok {
		a.warnf(n.Token, "condition is always %t", lit.Value)
	}
	a.pushScope()
	a.walkStatements(n.Consequence.Statements)
	a.popScope()
	a.walk(n.Alternative)
}

func (a *analyzer) VisitWhileStatement(n *ast.WhileStatement) {
	a.walk(n.Condition)

	if lit, ok := n.Condition.(*ast.BooleanLiteral); ok && lit.Value {
		if !containsLoopExit(n.Body) {
			a.warnf(n.Token, "while true without break or return never terminates")
		}
	}

	a.loopDepth++
	a.pushScope()
	a.walkStatements(n.Body.Statements)
	a.popScope()
	a.loopDepth--
}

func (a *analyzer) VisitForStatement(n *ast.ForStatement) {
	a.walk(n.Iterable)

	a.loopDepth++
	a.pushScope()
	a.declare(n.Item.Value, n.Item.Token, false, false)
	// The loop variable is implicitly used by the iteration itself.
	a.scopes[len(a.scopes)-1].names[n.Item.Value].used = true
	a.walkStatements(n.Body.Statements)
	a.popScope()
	a.loopDepth--
}

func (a *analyzer) VisitBlockStatement(n *ast.BlockStatement) {
	a.pushScope()
	a.walkStatements(n.Statements)
	a.popScope()
}

func (a *analyzer) VisitExpressionStatement(n *ast.ExpressionStatement) {
	a.walk(n.Expression)
}

func (a *analyzer) VisitStructStatement(n *ast.StructStatement) {
	a.declare(n.Name.Value, n.Name.Token, false, true)
	seen := make(map[string]bool, len(n.Fields))
	for _, f := range n.Fields {
		if seen[f.Name] {
			a.warnf(f.Token, "duplicate field %q in struct %q", f.Name, n.Name.Value)
		}
		seen[f.Name] = true
	}
}

func (a *analyzer) VisitImportStatement(n *ast.ImportStatement) {
	if n.Items != nil {
		for _, item := range n.Items {
			a.declare(item, n.Token, false, true)
			a.lookup(item).used = true
		}
		return
	}
	// Namespace imports bind the final path segment; treat it as used
	// since module members resolve dynamically.
	name := n.Path
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '/' {
			name = name[i+1:]
			break
		}
	}
	a.declare(name, n.Token, false, true)
	a.lookup(name).used = true
}

func (a *analyzer) VisitIdentifier(n *ast.Identifier) {
	if b := a.lookup(n.Value); b != nil {
		b.used = true
		return
	}
	if builtinNames[n.Value] {
		return
	}
	a.warnf(n.Token, "undefined variable %q", n.Value)
}

func (a *analyzer) VisitIntegerLiteral(n *ast.IntegerLiteral) {}
func (a *analyzer) VisitFloatLiteral(n *ast.FloatLiteral)     {}
func (a *analyzer) VisitStringLiteral(n *ast.StringLiteral)   {}
func (a *analyzer) VisitBooleanLiteral(n *ast.BooleanLiteral) {}
func (a *analyzer) VisitNullLiteral(n *ast.NullLiteral)       {}

func (a *analyzer) VisitArrayLiteral(n *ast.ArrayLiteral) {
	for _, el := range n.Elements {
		a.walk(el)
	}
}

func (a *analyzer) VisitPrefixExpression(n *ast.PrefixExpression) {
	a.walk(n.Right)
}

func (a *analyzer) VisitInfixExpression(n *ast.InfixExpression) {
	a.walk(n.Left)
	a.walk(n.Right)

	if n.Operator != "/" && n.Operator != "%" {
		return
	}
	switch lit := n.Right.(type) {
	case *ast.IntegerLiteral:
		if lit.Value == 0 {
			a.warnf(n.Token, "division by zero")
		}
	case *ast.FloatLiteral:
		if lit.Value == 0 {
			a.warnf(n.Token, "division by zero")
		}
	}
}

func (a *analyzer) VisitCallExpression(n *ast.CallExpression) {
	a.walk(n.Function)
	for _, arg := range n.Arguments {
		a.walk(arg)
	}
}

func (a *analyzer) VisitIndexExpression(n *ast.IndexExpression) {
	a.walk(n.Left)
	a.walk(n.Index)
	if neg, ok := n.Index.(*ast.PrefixExpression); ok && neg.Operator == "-" {
		if lit, ok := neg.Right.(*ast.IntegerLiteral); ok && lit.Value > 0 {
			a.warnf(n.Token, "negative index -%d is always out of range", lit.Value)
		}
	}
}

func (a *analyzer) VisitMemberExpression(n *ast.MemberExpression) {
	a.walk(n.Object)
}

func (a *analyzer) VisitPersonalityBlock(n *ast.PersonalityBlock) {
	seen := make(map[string]bool, len(n.Traits))
	for _, t := range n.Traits {
		if seen[t.Name] {
			a.warnf(t.Token, "duplicate trait %q, the last value wins", t.Name)
		}
		seen[t.Name] = true
	}
	if len(n.Traits) == 0 {
		a.suggestf(n.Token, "personality block declares no traits")
	}
}

func (a *analyzer) VisitVoiceBlock(n *ast.VoiceBlock) {
	a.pushScope()
	a.walkStatements(n.Body.Statements)
	a.popScope()
}

func (a *analyzer) VisitSayStatement(n *ast.SayStatement) {
	a.walk(n.Text)
	a.walk(n.Emotion)
	a.walk(n.VoiceID)
	a.walk(n.Speed)
	if lit, ok := n.Text.(*ast.StringLiteral); ok && lit.Value == "" {
		a.suggestf(n.Token, "say with empty text has no effect")
	}
}

func (a *analyzer) VisitOptimizeSelfStatement(n *ast.OptimizeSelfStatement) {
	a.walk(n.Metric)
	a.walk(n.Target)
	a.walk(n.Strategy)
}

func (a *analyzer) VisitKnowledgeQuery(n *ast.KnowledgeQuery) {
	a.walk(n.Query)
	for _, f := range n.Filters {
		a.walk(f.Value)
	}
}

func (a *analyzer) VisitListenExpression(n *ast.ListenExpression) {
	a.walk(n.Timeout)
	a.walk(n.Language)
}

func (a *analyzer) VisitLoadModelExpression(n *ast.LoadModelExpression) {
	a.walk(n.Name)
	a.walk(n.Config)
}

func (a *analyzer) VisitEmotionExpression(n *ast.EmotionExpression) {
	a.walk(n.Kind)
	a.walk(n.Intensity)
}

func (a *analyzer) VisitConfidenceExpression(n *ast.ConfidenceExpression) {
	a.walk(n.Value)
	a.walk(n.Threshold)
}

// containsLoopExit reports whether a break or return appears anywhere in
// the block, including nested ifs but not nested loops (their breaks
// belong to them).
func containsLoopExit(block *ast.BlockStatement) bool {
	for _, stmt := range block.Statements {
		switch s := stmt.(type) {
		case *ast.BreakStatement, *ast.ReturnStatement:
			return true
		case *ast.IfStatement:
			if containsLoopExit(s.Consequence) {
				return true
			}
			switch alt := s.Alternative.(type) {
			case *ast.BlockStatement:
				if containsLoopExit(alt) {
					return true
				}
			case *ast.IfStatement:
				if containsLoopExit(&ast.BlockStatement{Statements: []ast.Statement{alt}}) {
					return true
				}
			}
		}
	}
	return false
}

package ast

// Visitor has one method per concrete node type. The evaluator, the
// bytecode compiler and the analyzer all implement it, so a new node type
// fails to compile until every stage handles it.
type Visitor interface {
	VisitProgram(n *Program)

	VisitLetStatement(n *LetStatement)
	VisitAssignStatement(n *AssignStatement)
	VisitFunctionStatement(n *FunctionStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitBreakStatement(n *BreakStatement)
	VisitContinueStatement(n *ContinueStatement)
	VisitIfStatement(n *IfStatement)
	VisitWhileStatement(n *WhileStatement)
	VisitForStatement(n *ForStatement)
	VisitBlockStatement(n *BlockStatement)
	VisitExpressionStatement(n *ExpressionStatement)
	VisitStructStatement(n *StructStatement)
	VisitImportStatement(n *ImportStatement)

	VisitIdentifier(n *Identifier)
	VisitIntegerLiteral(n *IntegerLiteral)
	VisitFloatLiteral(n *FloatLiteral)
	VisitStringLiteral(n *StringLiteral)
	VisitBooleanLiteral(n *BooleanLiteral)
	VisitNullLiteral(n *NullLiteral)
	VisitArrayLiteral(n *ArrayLiteral)
	VisitPrefixExpression(n *PrefixExpression)
	VisitInfixExpression(n *InfixExpression)
	VisitCallExpression(n *CallExpression)
	VisitIndexExpression(n *IndexExpression)
	VisitMemberExpression(n *MemberExpression)

	VisitPersonalityBlock(n *PersonalityBlock)
	VisitVoiceBlock(n *VoiceBlock)
	VisitSayStatement(n *SayStatement)
	VisitOptimizeSelfStatement(n *OptimizeSelfStatement)
	VisitKnowledgeQuery(n *KnowledgeQuery)
	VisitListenExpression(n *ListenExpression)
	VisitLoadModelExpression(n *LoadModelExpression)
	VisitEmotionExpression(n *EmotionExpression)
	VisitConfidenceExpression(n *ConfidenceExpression)
}

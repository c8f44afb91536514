package agents

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/agent-protocol/a2a-agents/pkg/a2a"
	"github.com/agent-protocol/a2a-agents/pkg/ptr"
)

// Operator is a binary operation an ArithmeticAgent applies to its operands.
type Operator struct {
	// Name identifies the operation in skills and logs, e.g. "add".
	Name string
	// Apply computes the result. An error here is reported as an internal
	// error, not as bad input.
	Apply func(a, b float64) (float64, error)
	// Describe renders the success reply.
	Describe func(a, b, result float64) string
}

// Add sums its operands.
var Add = Operator{
	Name: "add",
	Apply: func(a, b float64) (float64, error) {
		return a + b, nil
	},
	Describe: func(a, b, result float64) string {
		return fmt.Sprintf("The sum of %s and %s is: %s", FormatNumber(a), FormatNumber(b), FormatNumber(result))
	},
}

// Subtract takes the right operand from the left one.
var Subtract = Operator{
	Name: "subtract",
	Apply: func(a, b float64) (float64, error) {
		return a - b, nil
	},
	Describe: func(a, b, result float64) string {
		return fmt.Sprintf("The difference between %s and %s is: %s", FormatNumber(a), FormatNumber(b), FormatNumber(result))
	},
}

// ArithmeticAgent expects a single text message with two numbers separated
// by a comma (e.g. "5,2") and replies with the result of its operator.
type ArithmeticAgent struct {
	*BaseAgentImpl
	op Operator
}

// NewArithmeticAgent creates an agent applying op.
func NewArithmeticAgent(name, description string, op Operator, logger *zap.Logger) *ArithmeticAgent {
	return &ArithmeticAgent{
		BaseAgentImpl: NewBaseAgent(name, description, logger),
		op:            op,
	}
}

// NewAddAgent creates the agent that sums two numbers.
func NewAddAgent(logger *zap.Logger) *ArithmeticAgent {
	return NewArithmeticAgent("AddAgent",
		"Adds two numbers sent as a single text message, e.g. \"5,2\".",
		Add, logger)
}

// NewSubtractAgent creates the agent that subtracts two numbers.
func NewSubtractAgent(logger *zap.Logger) *ArithmeticAgent {
	return NewArithmeticAgent("SubtractAgent",
		"Subtracts the second of two numbers sent as a single text message from the first, e.g. \"5,2\".",
		Subtract, logger)
}

// Skills lists the agent's single skill.
func (a *ArithmeticAgent) Skills() []a2a.AgentSkill {
	return []a2a.AgentSkill{{
		ID:          a.op.Name,
		Name:        a.op.Name,
		Description: ptr.Ptr(a.Description()),
		Tags:        []string{"math", a.op.Name},
		Examples:    []string{"5,2", "3.5, -1"},
		InputModes:  []string{"text/plain"},
		OutputModes: []string{"text/plain"},
	}}
}

// HandleMessage parses the operands, applies the operator and replies.
// Bad input is reported in the reply text; any other failure, panics
// included, is logged and answered with InternalErrorReply.
func (a *ArithmeticAgent) HandleMessage(ctx context.Context, msg *a2a.Message) (reply *a2a.Message) {
	logger := a.Logger()
	logger.Info("Received message", messageFields(msg)...)

	text, ok := inputText(msg)
	if !ok {
		logger.Warn(NonTextInputReply)
		return a2a.NewReply(msg, NonTextInputReply)
	}

	defer func() {
		if r := recover(); r != nil {
			logger.Error("An unexpected error occurred",
				zap.Any("panic", r),
				zap.String("input", text),
				zap.Stack("stack"),
			)
			reply = a2a.NewReply(msg, InternalErrorReply)
		}
	}()

	logger.Info("Attempting to parse text", zap.String("text", text))

	result, err := a.compute(ctx, text)
	if err != nil {
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			errMsg := fmt.Sprintf("Error processing input '%s': %s", text, parseErr)
			logger.Error(errMsg)
			return a2a.NewReply(msg, errMsg)
		}

		logger.Error("An unexpected error occurred", zap.Error(err), zap.String("input", text))
		return a2a.NewReply(msg, InternalErrorReply)
	}

	logger.Info("Calculation successful", zap.String("result", result))
	return a2a.NewReply(msg, result)
}

// compute returns the success reply text for text.
func (a *ArithmeticAgent) compute(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("request abandoned: %w", err)
	}

	operands, err := ParseOperands(text)
	if err != nil {
		return "", err
	}

	result, err := a.op.Apply(operands.Left, operands.Right)
	if err != nil {
		return "", fmt.Errorf("%s failed: %w", a.op.Name, err)
	}
	return a.op.Describe(operands.Left, operands.Right, result), nil
}

package screening

import (
	"context"
	"fmt"
	"strings"

	"portfolio-backend/internal/contact/domain/model"
	"portfolio-backend/internal/contact/domain/repository"
	setupmodel "portfolio-backend/internal/setup/domain/model"
	"portfolio-backend/internal/shared/logger"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/checker/decls"
)

type compiledRule struct {
	expression string
	program    cel.Program
}

// CELScreener rejects submissions matching any configured CEL expression.
type CELScreener struct {
	rules  []compiledRule
	logger logger.Logger
}

var _ repository.Screener = (*CELScreener)(nil)

// createCELEnvironment declares the submission fields visible to rules.
func createCELEnvironment() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Declarations(
			decls.NewVar(setupmodel.FieldName, decls.String),
			decls.NewVar(setupmodel.FieldEmail, decls.String),
			decls.NewVar(setupmodel.FieldSubject, decls.String),
			decls.NewVar(setupmodel.FieldMessage, decls.String),
			decls.NewVar(setupmodel.FieldIPAddress, decls.String),
			decls.NewVar(setupmodel.FieldUserAgent, decls.String),
		),
	)
}

// NewCELScreener compiles expressions. Blank expressions are ignored; an
// expression that fails to compile or is not boolean is an error.
func NewCELScreener(expressions []string, log logger.Logger) (*CELScreener, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}

	env, err := createCELEnvironment()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	s := &CELScreener{logger: log.WithComponent("screening")}
	for _, expr := range expressions {
		expr = strings.TrimSpace(expr)
		if expr == "" {
			continue
		}

		ast, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("CEL compilation error in %q: %w", expr, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("screening rule %q must return bool, got %s", expr, ast.OutputType())
		}

		program, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("failed to create CEL program for %q: %w", expr, err)
		}
		s.rules = append(s.rules, compiledRule{expression: expr, program: program})
	}

	return s, nil
}

// RuleCount returns the number of active rules.
func (s *CELScreener) RuleCount() int {
	return len(s.rules)
}

// Screen evaluates rules in order and returns the first that matches.
func (s *CELScreener) Screen(ctx context.Context, contact *model.Contact) (string, error) {
	if len(s.rules) == 0 {
		return "", nil
	}

	vars := map[string]interface{}{
		setupmodel.FieldName:      contact.Name,
		setupmodel.FieldEmail:     contact.Email,
		setupmodel.FieldSubject:   contact.Subject,
		setupmodel.FieldMessage:   contact.Message,
		setupmodel.FieldIPAddress: contact.IPAddress,
		setupmodel.FieldUserAgent: contact.UserAgent,
	}

	for _, rule := range s.rules {
		out, _, err := rule.program.ContextEval(ctx, vars)
		if err != nil {
			return "", fmt.Errorf("CEL evaluation error in %q: %w", rule.expression, err)
		}
		matched, ok := out.Value().(bool)
		if !ok {
			return "", fmt.Errorf("CEL expression %q did not return boolean value", rule.expression)
		}
		if matched {
			s.logger.WithContext(ctx).Infof("Submission matched screening rule %q", rule.expression)
			return rule.expression, nil
		}
	}
	return "", nil
}

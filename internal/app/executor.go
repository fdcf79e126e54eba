package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/jsamuelsen/startup-toolkit/internal/platform/logging"
	"github.com/jsamuelsen/startup-toolkit/internal/platform/telemetry"
)

// Document replacements (imports) run as Validate, Perform, Verify, Archive.
// Nothing is written until the replacement has been verified, so a bad file
// leaves the stored worksheet untouched.

// ExecutionStep names a stage of an Operation.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
)

// ExecutionError records the step an operation failed in.
type ExecutionError struct {
	Op    string
	Step  ExecutionStep
	Cause error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("%s: %s failed: %v", e.Op, e.Step, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// GetExecutionStep reports the step err failed in, if it came from Execute.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return ee.Step, true
	}

	return "", false
}

// Operation is a document replacement. I is the request, O the document
// that ends up stored and returned. Nil steps are skipped.
type Operation[I, O any] struct {
	Name string

	// Validate checks the request before any work is done.
	Validate func(ctx context.Context, in I) error

	// Perform builds the document to store.
	Perform func(ctx context.Context, in I) (O, error)

	// Verify rejects a built document that does not match the request.
	Verify func(ctx context.Context, in I, out O) error

	// Archive persists the verified document.
	Archive func(ctx context.Context, in I, out O) error
}

// Executor runs operations with step-level logging and tracing.
type Executor struct {
	logger *slog.Logger
}

// NewExecutor creates an executor. A nil logger uses slog.Default.
func NewExecutor(logger *slog.Logger) *Executor {
	return &Executor{logger: loggerOrDefault(logger)}
}

// Execute runs op for in and returns the stored document.
func Execute[I, O any](ctx context.Context, exec *Executor, op Operation[I, O], in I) (O, error) {
	var zero O

	ctx, span := telemetry.StartSpan(ctx, op.Name)
	defer span.End()

	logger := logging.FromContextOr(ctx, exec.logger).With(slog.String("operation", op.Name))

	fail := func(step ExecutionStep, err error) (O, error) {
		span.SetStatus(codes.Error, string(step))
		span.SetAttributes(attribute.String("operation.failed_step", string(step)))
		logger.WarnContext(ctx, "operation failed", slog.String("step", string(step)), slog.Any("error", err))

		return zero, &ExecutionError{Op: op.Name, Step: step, Cause: err}
	}

	start := time.Now()

	if op.Validate != nil {
		if err := op.Validate(ctx, in); err != nil {
			return fail(StepValidate, err)
		}
	}

	var out O
	if op.Perform != nil {
		v, err := op.Perform(ctx, in)
		if err != nil {
			return fail(StepPerform, err)
		}
		out = v
	}

	if op.Verify != nil {
		if err := op.Verify(ctx, in, out); err != nil {
			return fail(StepVerify, err)
		}
	}

	if op.Archive != nil {
		if err := op.Archive(ctx, in, out); err != nil {
			return fail(StepArchive, err)
		}
	}

	logger.InfoContext(ctx, "operation completed", slog.Duration("duration", time.Since(start)))

	return out, nil
}

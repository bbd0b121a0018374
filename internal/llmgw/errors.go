package llmgw

import (
	"context"
	"errors"
	"strings"

	genai "google.golang.org/genai"

	"llmgateway/internal/apierrors"
)

// translateError implements spec 4.3's mandatory exception translation: the
// client never leaks a provider-specific error type upward, and a
// deadline-exceeded condition is always distinguishable from a generic
// model error.
func translateError(err error) *apierrors.Error {
	if err == nil {
		return nil
	}
	if existing, ok := apierrors.As(err); ok {
		return existing
	}

	if errors.Is(err, context.DeadlineExceeded) || carriesDeadlineIndicator(err.Error()) {
		return apierrors.Wrap(apierrors.CodeLLMTimeout, err, "")
	}

	var apiErr *genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return apierrors.Wrap(apierrors.CodeLLMRateLimit, err, "")
		case apiErr.Code == 504:
			return apierrors.Wrap(apierrors.CodeLLMTimeout, err, "")
		case apiErr.Code >= 500:
			return apierrors.Wrap(apierrors.CodeLLMModel, err, "")
		default:
			return apierrors.Wrap(apierrors.CodeLLMModel, err, "")
		}
	}

	return apierrors.Wrap(apierrors.CodeLLMModel, err, "")
}

func carriesDeadlineIndicator(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "deadline_exceeded") || strings.Contains(lower, "deadline exceeded")
}

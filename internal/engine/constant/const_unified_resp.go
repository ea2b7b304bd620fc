package constant

/**
 * @file: const_unified_resp.go
 * @description: unified response locals keys
 */

const (
	// DETAIL marks a response carrying data
	// e.g: c.Locals(DETAIL, value)
	DETAIL = "detail"

	// OPERATION marks a bare operation result
	// e.g: c.Locals(OPERATION, "")
	OPERATION = "operation"
)

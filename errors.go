package dagobah

import "errors"

// ErrNotInitialized is returned by Run when the preprocessed table or the
// lookup input is missing or empty: the engine produces no annotations,
// only the raw-table echo.
var ErrNotInitialized = errors.New("dagobah: engine not initialized")

// ErrNoEntityColumns is returned when a table has no columns classified as
// RoleEntity; there is nothing for CEA/CTA/CPA to annotate.
var ErrNoEntityColumns = errors.New("dagobah: table has no entity columns")

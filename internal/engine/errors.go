package engine

import "errors"

// ErrUnknownAsset is returned by the multi-instrument Engine wrapper when
// routing to an AssetType that was never registered at construction.
// Per-order admission outcomes (duplicate id, FillAndKill/FillOrKill
// rejection, unknown cancel/modify id) are NOT errors - spec.md §7
// classifies them as expected client-input outcomes encoded by an empty
// trades slice or a silent no-op, never by a returned error.
var ErrUnknownAsset = errors.New("unknown asset type")

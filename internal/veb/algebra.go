package veb

import (
	verrors "github.com/23skdu/vebtree/internal/errors"
)

// Invert replaces the set with its complement in [0, Universe()).
func (t *Tree) Invert() {
	defer observeBulk("invert")()
	t.ensureRoot().invert()
}

// And intersects t with o. Both trees must share a universe; on mismatch t
// is left unchanged and a validation error is returned.
func (t *Tree) And(o *Tree) error {
	if err := t.checkOperand("and", o); err != nil {
		return err
	}
	defer observeBulk("and")()
	switch {
	case t == o, t.root == nil:
	case o.root == nil:
		t.root = nil
	default:
		t.root.and(o.root)
	}
	return nil
}

// Or unions o into t. Both trees must share a universe.
func (t *Tree) Or(o *Tree) error {
	if err := t.checkOperand("or", o); err != nil {
		return err
	}
	defer observeBulk("or")()
	switch {
	case t == o, o.root == nil:
	case t.root == nil:
		t.root = o.root.clone()
	default:
		t.root.or(o.root)
	}
	return nil
}

// Xor sets t to the symmetric difference of t and o. Both trees must share
// a universe. t.Xor(t) empties t.
func (t *Tree) Xor(o *Tree) error {
	if err := t.checkOperand("xor", o); err != nil {
		return err
	}
	defer observeBulk("xor")()
	switch {
	case t == o:
		t.root = nil
	case o.root == nil:
	case t.root == nil:
		t.root = o.root.clone()
	default:
		t.root.xor(o.root)
	}
	return nil
}

func (t *Tree) checkOperand(op string, o *Tree) error {
	if o == nil {
		return verrors.NewValidationError(op, "nil operand")
	}
	if t.universe != o.universe {
		return verrors.Newf(verrors.ErrorTypeValidation, op,
			"universe mismatch: %d != %d", t.universe, o.universe).
			WithContext("universe", t.universe).
			WithContext("operand_universe", o.universe)
	}
	return nil
}

package tac

import "fmt"

// Validate checks that a completed stream is well-formed: every jump is
// immediately followed by a location marker and no jump or return is left
// with an unresolved target.  The first violation found is returned.
func Validate(codes []Code) error {
	for i, code := range codes {
		if IsJump(code.Op) {
			if i+1 >= len(codes) || codes[i+1].Op != OpLoc {
				return fmt.Errorf("jump %s is not followed by a location marker", code.ID)
			}
		} else if code.Op != OpRet {
			continue
		}

		if code.Res == Unresolved {
			return fmt.Errorf("%s %s has an unresolved target", code.Op, code.ID)
		}
	}

	return nil
}

package savegame

import "github.com/Faultbox/ottd-prayer/internal/wire"

// skipScriptData consumes one Squirrel-like tagged value from a "special"
// chunk's trailing script data (AIPL/GSDT), discarding its content. The
// tree has no bearing on the PLYR lookup; it only needs to be walked
// correctly so the row's byte-count invariant holds afterward.
func skipScriptData(r *wire.Reader) error {
	fieldType, err := r.Uint8()
	if err != nil {
		return err
	}
	switch fieldType {
	case 0:
		_, err = r.Uint64()
		return err
	case 1:
		size, err := r.Uint8()
		if err != nil {
			return err
		}
		_, err = r.Bytes(int(size))
		return err
	case 2:
		for {
			marker, ok := r.PeekUint8()
			if !ok {
				return wire.ErrPacketTooShort
			}
			if marker == 0xFF {
				_, err := r.Uint8()
				return err
			}
			if err := skipScriptData(r); err != nil {
				return err
			}
		}
	case 3:
		for {
			marker, ok := r.PeekUint8()
			if !ok {
				return wire.ErrPacketTooShort
			}
			if marker == 0xFF {
				_, err := r.Uint8()
				return err
			}
			if err := skipScriptData(r); err != nil { // key
				return err
			}
			if err := skipScriptData(r); err != nil { // value
				return err
			}
		}
	case 4:
		_, err = r.Uint8()
		return err
	case 5:
		return nil
	default:
		return ErrUnknownFieldType
	}
}

package farmrpg

import (
	"farmbot-backend/lib/restyutil"
)

var restyOutput restyutil.InstrumentOutput

// SetRestyInstrumentOutput must be called before NewClient to take effect.
func SetRestyInstrumentOutput(output restyutil.InstrumentOutput) {
	restyOutput = output
}

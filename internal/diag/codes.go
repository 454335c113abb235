package diag

import "fmt"

type Code uint16

const (
	UnknownCode Code = 0

	// Метаданные
	MetaInfo           Code = 1000
	MetaOutOfRange     Code = 1001
	MetaCyclicName     Code = 1002
	MetaUnknownFlag    Code = 1003
	MetaMalformedTable Code = 1004
	MetaUnknownSchema  Code = 1005

	// IR
	IRInfo              Code = 2000
	IRIncompleteRewrite Code = 2001
	IRInvalidTree       Code = 2002
	IRUnknownKind       Code = 2003

	// Ввод-вывод
	IOLoadFileError  Code = 4001
	IOCacheError     Code = 4002
	IOWriteFileError Code = 4003

	// Цели
	TargetUnknown     Code = 5001
	TargetUnavailable Code = 5002

	// Наблюдаемость
	ObsTimings Code = 6001
)

var codeDescription = map[Code]string{
	UnknownCode:         "Unknown error",
	MetaInfo:            "Metadata information",
	MetaOutOfRange:      "Table index out of range",
	MetaCyclicName:      "Qualified name does not reach the root",
	MetaUnknownFlag:     "Unknown flag value",
	MetaMalformedTable:  "Malformed metadata table",
	MetaUnknownSchema:   "Unknown fragment schema",
	IRInfo:              "IR information",
	IRIncompleteRewrite: "Rewrite left a required child empty",
	IRInvalidTree:       "Invalid IR tree",
	IRUnknownKind:       "Unknown IR node kind",
	IOLoadFileError:     "I/O load file error",
	IOCacheError:        "Dump cache error",
	IOWriteFileError:    "I/O write file error",
	TargetUnknown:       "Unknown target",
	TargetUnavailable:   "Target not available on this host",
	ObsTimings:          "Pipeline timings",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("MET%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("IR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("TGT%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

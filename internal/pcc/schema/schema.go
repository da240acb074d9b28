// Package schema classifies campaign descriptor directives by the kind of
// value they carry.
package schema

import "sort"

// Kind is the value kind attached to a known directive name.
type Kind int

const (
	// KindUnknown is never stored in the table; Lookup returns it for
	// directive names outside the schema.
	KindUnknown Kind = iota
	KindBool
	KindDate
	KindNumber
	KindText
	// KindListFile directives name a list file of tab-separated records.
	KindListFile
	// KindDescriptorFile directives include another descriptor file.
	KindDescriptorFile
)

// String returns the lower-case kind name used in logs and exports.
func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindDate:
		return "date"
	case KindNumber:
		return "number"
	case KindText:
		return "text"
	case KindListFile:
		return "list_file"
	case KindDescriptorFile:
		return "descriptor_file"
	default:
		return "unknown"
	}
}

// IsText reports whether directives of this kind accumulate raw text in the
// data dictionary.
func (k Kind) IsText() bool {
	switch k {
	case KindBool, KindDate, KindNumber, KindText:
		return true
	default:
		return false
	}
}

var directives = map[string]Kind{
	"PRECAMPAIGN":   KindText,
	"BOOKTYPE":      KindText,
	"CAMPAIGN":      KindText,
	"COMPANIONLIST": KindText,
	"COPYRIGHT":     KindText,
	"COVER":         KindText,
	"DESC":          KindText,
	"DYNAMIC":       KindText,
	"FORWARDREF":    KindText,
	"GAMEMODE":      KindText,
	"GENRE":         KindText,
	"HELP":          KindText,
	"HIDETYPE":      KindText,
	"INFOTEXT":      KindBool,
	"ISOGL":         KindBool,
	"ISLICENSED":    KindBool,
	"KEY":           KindText,
	"LOGO":          KindText,
	"PCC":           KindDescriptorFile,
	"PUBNAMELONG":   KindText,
	"PUBNAMESHORT":  KindText,
	"PUBNAMEWEB":    KindText,
	"RANK":          KindNumber,
	"SETTING":       KindText,
	"SHOWINMENU":    KindText,
	"SOURCEDATE":    KindDate,
	"SOURCELONG":    KindText,
	"SOURCESHORT":   KindText,
	"SOURCEWEB":     KindText,
	"STATUS":        KindText,
	"TYPE":          KindText,
	"URL":           KindText,

	"ABILITY":         KindListFile,
	"ABILITYCATEGORY": KindListFile,
	"ALIGNMENT":       KindListFile,
	"ARMORPROF":       KindListFile,
	"BIOSET":          KindListFile,
	"CLASS":           KindListFile,
	"COMPANIONMOD":    KindListFile,
	"DATATABLE":       KindListFile,
	"DATACONTROL":     KindListFile,
	"DEITY":           KindListFile,
	"DOMAIN":          KindListFile,
	"EQUIPMENT":       KindListFile,
	"EQUIPMOD":        KindListFile,
	"GLOBALMODIFIER":  KindListFile,
	"KIT":             KindListFile,
	"LANGUAGE":        KindListFile,
	"RACE":            KindListFile,
	"SAVE":            KindListFile,
	"SHIELDPROF":      KindListFile,
	"SIZE":            KindListFile,
	"SKILL":           KindListFile,
	"SPELL":           KindListFile,
	"STAT":            KindListFile,
	"TEMPLATE":        KindListFile,
	"VARIABLE":        KindListFile,
	"WEAPONPROF":      KindListFile,
}

// Lookup returns the kind for a directive name. Matching is exact and
// case-sensitive.
func Lookup(name string) (Kind, bool) {
	kind, ok := directives[name]
	if !ok {
		return KindUnknown, false
	}
	return kind, true
}

// Names returns every known directive name in sorted order.
func Names() []string {
	names := make([]string, 0, len(directives))
	for name := range directives {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

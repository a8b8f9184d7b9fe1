package chat

import (
	"strconv"
	"strings"
)

// Kind identifies a parsed chat command.
type Kind int

const (
	KindInvalid Kind = iota
	KindBrowse
	KindCheckout
	KindHistory
	KindCurrent
	KindCancel
	KindSelect
)

// Reserved numeric codes of the chat protocol.
const (
	CodeBrowse   = 1
	CodeCheckout = 99
	CodeHistory  = 98
	CodeCurrent  = 97
	CodeCancel   = 0
)

// maxDigits caps input length before integer conversion.
const maxDigits = 9

var kindNames = map[Kind]string{
	KindInvalid:  "invalid",
	KindBrowse:   "browse",
	KindCheckout: "checkout",
	KindHistory:  "history",
	KindCurrent:  "current",
	KindCancel:   "cancel",
	KindSelect:   "select",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Command is a classified chat input. Code is the menu code for KindSelect.
type Command struct {
	Kind Kind
	Code int
}

// Parse classifies raw input. Anything that is not a non-empty run of decimal
// digits no greater than maxInput yields KindInvalid.
func Parse(input string, maxInput int) Command {
	s := strings.TrimSpace(input)
	if s == "" || len(s) > maxDigits {
		return Command{Kind: KindInvalid}
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return Command{Kind: KindInvalid}
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n > maxInput {
		return Command{Kind: KindInvalid}
	}

	switch n {
	case CodeBrowse:
		return Command{Kind: KindBrowse}
	case CodeCheckout:
		return Command{Kind: KindCheckout}
	case CodeHistory:
		return Command{Kind: KindHistory}
	case CodeCurrent:
		return Command{Kind: KindCurrent}
	case CodeCancel:
		return Command{Kind: KindCancel}
	default:
		return Command{Kind: KindSelect, Code: n}
	}
}

// Reserved reports whether code is a protocol command and so cannot be used
// as a menu code.
func Reserved(code int) bool {
	switch code {
	case CodeBrowse, CodeCheckout, CodeHistory, CodeCurrent, CodeCancel:
		return true
	}
	return false
}

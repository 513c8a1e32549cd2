package where

import "fmt"

// lexer splits one --where value into words.
type lexer struct {
	src    []byte
	ch     byte
	offset int
	pos    int
}

func newLexer(src []byte) *lexer {
	l := &lexer{src: src}
	l.next()

	return l
}

// Split breaks src into words on whitespace.
//
// 'single quotes' group words and are dropped. "double quotes" group words
// and are kept, so a quoted number survives to Coerce. A [ starts a JSON
// list that runs to the balanced ], keeping whitespace and quoted strings.
func Split(src string) ([]string, error) {
	l := newLexer([]byte(src))

	var words []string
	for {
		word, ok, err := l.scan()
		if err != nil {
			return nil, err
		}
		if !ok {
			return words, nil
		}
		words = append(words, word)
	}
}

// scan returns the next word. ok is false at end of input.
func (l *lexer) scan() (string, bool, error) {
	for isSpace(l.ch) {
		l.next()
	}
	if l.ch == 0 {
		return "", false, nil
	}

	chars := make([]byte, 0, 32)
	for l.ch != 0 && !isSpace(l.ch) {
		start := l.pos
		switch l.ch {
		case '\'':
			l.next()
			for l.ch != '\'' {
				if l.ch == 0 {
					return "", false, fmt.Errorf("unclosed quote at %d", start)
				}
				chars = append(chars, l.ch)
				l.next()
			}
			l.next()
		case '"':
			s, err := l.quoted()
			if err != nil {
				return "", false, err
			}
			chars = append(chars, s...)
		case '[':
			depth := 0
			for {
				switch l.ch {
				case 0:
					return "", false, fmt.Errorf("unclosed list at %d", start)
				case '"':
					s, err := l.quoted()
					if err != nil {
						return "", false, err
					}
					chars = append(chars, s...)
					continue
				case '[':
					depth++
				case ']':
					depth--
				}
				chars = append(chars, l.ch)
				l.next()
				if depth == 0 {
					break
				}
			}
		default:
			chars = append(chars, l.ch)
			l.next()
		}
	}

	return string(chars), true, nil
}

// quoted consumes a double-quoted string, honouring backslash escapes,
// and returns it with its quotes.
func (l *lexer) quoted() ([]byte, error) {
	start := l.pos
	chars := []byte{'"'}
	l.next()
	for l.ch != '"' {
		if l.ch == 0 {
			return nil, fmt.Errorf("unclosed quote at %d", start)
		}
		if l.ch == '\\' {
			chars = append(chars, l.ch)
			l.next()
			if l.ch == 0 {
				return nil, fmt.Errorf("unclosed quote at %d", start)
			}
		}
		chars = append(chars, l.ch)
		l.next()
	}
	l.next()
	return append(chars, '"'), nil
}

// Load the next character into l.ch (or 0 on end of input).
func (l *lexer) next() {
	if l.offset >= len(l.src) {
		l.ch = 0
		l.pos = len(l.src)
		return
	}
	l.pos = l.offset
	l.ch = l.src[l.offset]
	l.offset++
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}

// Package response parses inbound EPP messages into normalized results.
//
// A registry sends two kinds of top-level message: greetings (the banner on
// connect and the answer to hello) and command responses. This package
// classifies the message, extracts the result code and transaction ids a
// connection needs for correlation, and flattens the human-readable result
// messages. The command-specific payload (resData), poll-queue metadata
// (msgQ), and extension block are exposed as opaque subtrees for per-object
// helpers to project; this layer does not interpret them.
//
// # Success Determination
//
// RFC 5730 Section 3 assigns codes 1xxx to positive completions and 2xxx to
// errors, so a response succeeds iff its code is below 2000. A greeting is
// always a success. A response with no parseable code is treated as a
// success as well; this is a deliberate leniency for malformed servers,
// kept for compatibility with registries that omit the code on some
// notifications.
//
// # Reference
//
// RFC 5730 Section 2.4 (greeting), Section 2.6 (response), Section 3
// (result codes): https://www.rfc-editor.org/rfc/rfc5730
package response

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// FailureThreshold is the first failing result code. Codes below it are
// positive completions (RFC 5730 Section 3).
const FailureThreshold = 2000

var (
	// ErrNotEPP is returned when the document root is not an epp element.
	ErrNotEPP = errors.New("response: document root is not epp")
	// ErrNoResponse is returned when the envelope carries neither a greeting
	// nor a response element.
	ErrNoResponse = errors.New("response: no greeting or response element")
)

// Kind classifies a normalized inbound message.
type Kind string

const (
	// KindGreeting is the unsolicited banner message (RFC 5730 Section 2.4).
	KindGreeting Kind = "greeting"
	// KindResponse is a command response (RFC 5730 Section 2.6).
	KindResponse Kind = "response"
)

// Result is a normalized inbound message. Fields are set at construction and
// not mutated afterwards.
type Result struct {
	Kind Kind

	// Code is the numeric result code of the first result element, nil for
	// greetings and for responses whose code is absent or unparseable.
	Code *int

	// Message is all result messages joined by spaces; Messages is the
	// per-result list.
	Message  string
	Messages []string

	// ClTRID and SvTRID are the client and server transaction ids from the
	// trID block, empty when absent. Greetings carry neither.
	ClTRID string
	SvTRID string

	// Data is the command-specific payload: the resData subtree for
	// responses, the greeting subtree for greetings. Queue is the msgQ
	// block and Extension the extension block; all three are nil when
	// absent and are passed through unparsed.
	Data      *etree.Element
	Queue     *etree.Element
	Extension *etree.Element

	// Raw and Doc keep the original message and its parsed tree for
	// diagnostics.
	Raw []byte
	Doc *etree.Document
}

// OK reports whether the result is a success. Success is derived, never
// stored: greetings always succeed, and a response succeeds when its code is
// absent (see the package leniency note) or below FailureThreshold.
func (r *Result) OK() bool {
	if r.Kind == KindGreeting {
		return true
	}
	if r.Code == nil {
		return true
	}
	return *r.Code < FailureThreshold
}

// Normalize parses a raw XML message and classifies it as a greeting or a
// command response.
func Normalize(raw []byte) (*Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(raw); err != nil {
		return nil, fmt.Errorf("response: %w", err)
	}

	root := doc.Root()
	if root == nil || root.Tag != "epp" {
		return nil, ErrNotEPP
	}

	if greeting := ChildByTag(root, "greeting"); greeting != nil {
		return &Result{
			Kind: KindGreeting,
			Data: greeting,
			Raw:  raw,
			Doc:  doc,
		}, nil
	}

	resp := ChildByTag(root, "response")
	if resp == nil {
		return nil, ErrNoResponse
	}

	res := &Result{
		Kind:      KindResponse,
		Data:      ChildByTag(resp, "resData"),
		Queue:     ChildByTag(resp, "msgQ"),
		Extension: ChildByTag(resp, "extension"),
		Raw:       raw,
		Doc:       doc,
	}

	// A response may carry one or more result elements; treating the
	// singleton case as a one-element list keeps both paths identical.
	results := ChildrenByTag(resp, "result")
	if len(results) > 0 {
		if code, err := strconv.Atoi(results[0].SelectAttrValue("code", "")); err == nil {
			res.Code = &code
		}
		for _, r := range results {
			if msg := ChildByTag(r, "msg"); msg != nil {
				if text := FlattenText(msg); text != "" {
					res.Messages = append(res.Messages, text)
				}
			}
		}
		res.Message = strings.Join(res.Messages, " ")
	}

	if trID := ChildByTag(resp, "trID"); trID != nil {
		if cl := ChildByTag(trID, "clTRID"); cl != nil {
			res.ClTRID = strings.TrimSpace(cl.Text())
		}
		if sv := ChildByTag(trID, "svTRID"); sv != nil {
			res.SvTRID = strings.TrimSpace(sv.Text())
		}
	}

	return res, nil
}

// ChildByTag returns the first child element with the given local tag,
// ignoring namespace prefixes, or nil.
func ChildByTag(el *etree.Element, tag string) *etree.Element {
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			return child
		}
	}
	return nil
}

// ChildrenByTag returns every child element with the given local tag,
// ignoring namespace prefixes.
func ChildrenByTag(el *etree.Element, tag string) []*etree.Element {
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if child.Tag == tag {
			out = append(out, child)
		}
	}
	return out
}

// FlattenText recursively joins every text node under el with single spaces.
// Result messages may carry mixed content (text interleaved with value
// markup); flattening yields the full human-readable string.
func FlattenText(el *etree.Element) string {
	var parts []string
	collectText(el, &parts)
	return strings.Join(parts, " ")
}

func collectText(el *etree.Element, parts *[]string) {
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			if text := strings.TrimSpace(t.Data); text != "" {
				*parts = append(*parts, text)
			}
		case *etree.Element:
			collectText(t, parts)
		}
	}
}

// FirstText returns the trimmed text of the first of the named children that
// exists and has non-empty text. Per-object projections use it to probe the
// namespaced and bare spellings of a field in one call.
func FirstText(el *etree.Element, tags ...string) string {
	if el == nil {
		return ""
	}
	for _, tag := range tags {
		if child := ChildByTag(el, tag); child != nil {
			if text := strings.TrimSpace(child.Text()); text != "" {
				return text
			}
		}
	}
	return ""
}

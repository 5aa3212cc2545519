package settings

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/jsonc"
)

// ManagedKey marks a hook entry as owned by the sync engine.
const ManagedKey = "_managed"

const hooksKey = "hooks"

// group is one matcher group of an event.
type group struct {
	obj     *object
	matcher string
	entries []json.RawMessage
}

// Fresh returns the document to write when the target does not exist yet:
// source itself when every entry is already managed, otherwise source with
// every entry stamped.
func Fresh(source []byte) ([]byte, error) {
	src, err := parse(source, "source")
	if err != nil {
		return nil, err
	}
	allManaged, err := everyEntryManaged(src)
	if err != nil {
		return nil, fmt.Errorf("settings source: %w", err)
	}
	if allManaged {
		return source, nil
	}

	dst := &object{members: make([]member, 0, len(src.members))}
	for _, m := range src.members {
		if m.key == hooksKey {
			m.value = json.RawMessage("{}")
		}
		dst.members = append(dst.members, m)
	}
	return mergeInto(src, dst)
}

// Merge folds the hook entries of source into target and returns the new
// target document. For each event/matcher group named by source, managed
// entries are dropped from the matching target groups and the source
// entries are appended, stamped as managed, to the first of them. Groups
// and events only the target has are left as they are. Top-level keys of
// target are kept; keys only source has are added. An empty target is
// treated as missing.
func Merge(source, target []byte) ([]byte, error) {
	if len(bytes.TrimSpace(target)) == 0 {
		return Fresh(source)
	}

	src, err := parse(source, "source")
	if err != nil {
		return nil, err
	}
	dst, err := parse(target, "target")
	if err != nil {
		return nil, err
	}
	return mergeInto(src, dst)
}

func mergeInto(src, dst *object) ([]byte, error) {
	srcHooks, err := hooksOf(src)
	if err != nil {
		return nil, fmt.Errorf("settings source: %w", err)
	}
	dstHooks, err := hooksOf(dst)
	if err != nil {
		return nil, fmt.Errorf("settings target: %w", err)
	}

	for _, ev := range srcHooks.members {
		merged, err := mergeEvent(ev.key, ev.value, dstHooks)
		if err != nil {
			return nil, err
		}
		dstHooks.set(ev.key, merged)
	}

	if len(srcHooks.members) > 0 || hasKey(dst, hooksKey) {
		raw, err := dstHooks.marshal()
		if err != nil {
			return nil, err
		}
		dst.set(hooksKey, raw)
	}

	for _, m := range src.members {
		if _, ok := dst.get(m.key); !ok {
			dst.set(m.key, m.value)
		}
	}

	return render(dst)
}

func mergeEvent(event string, source json.RawMessage, dstHooks *object) (json.RawMessage, error) {
	srcGroups, err := parseGroups(source)
	if err != nil {
		return nil, fmt.Errorf("settings source: event %s: %w", event, err)
	}
	existing, _ := dstHooks.get(event)
	dstGroups, err := parseGroups(existing)
	if err != nil {
		return nil, fmt.Errorf("settings target: event %s: %w", event, err)
	}

	stripped := make(map[string]bool)
	for _, sg := range srcGroups {
		if !stripped[sg.matcher] {
			for i := range dstGroups {
				if dstGroups[i].matcher == sg.matcher {
					dstGroups[i].entries = ownedOnly(dstGroups[i].entries)
				}
			}
			stripped[sg.matcher] = true
		}

		idx := -1
		for i := range dstGroups {
			if dstGroups[i].matcher == sg.matcher {
				idx = i
				break
			}
		}
		if idx < 0 {
			dstGroups = append(dstGroups, group{obj: sg.obj.withoutEntries(), matcher: sg.matcher})
			idx = len(dstGroups) - 1
		}

		for _, e := range sg.entries {
			stamped, err := stamp(e)
			if err != nil {
				return nil, fmt.Errorf("settings source: event %s: %w", event, err)
			}
			dstGroups[idx].entries = append(dstGroups[idx].entries, stamped)
		}
	}

	return marshalGroups(dstGroups)
}

func parse(data []byte, what string) (*object, error) {
	obj, err := parseObject(jsonc.ToJSON(data))
	if err != nil {
		return nil, fmt.Errorf("parsing settings %s: %w", what, err)
	}
	return obj, nil
}

func hasKey(o *object, key string) bool {
	_, ok := o.get(key)
	return ok
}

func hooksOf(doc *object) (*object, error) {
	raw, ok := doc.get(hooksKey)
	if !ok || isNull(raw) {
		return &object{}, nil
	}
	hooks, err := parseObject(raw)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", hooksKey, err)
	}
	return hooks, nil
}

func parseGroups(raw json.RawMessage) ([]group, error) {
	items, err := parseArray(raw)
	if err != nil {
		return nil, fmt.Errorf("expected an array of matcher groups: %w", err)
	}
	groups := make([]group, 0, len(items))
	for i, item := range items {
		obj, err := parseObject(item)
		if err != nil {
			return nil, fmt.Errorf("group %d: %w", i, err)
		}
		g := group{obj: obj}
		if m, ok := obj.get("matcher"); ok && !isNull(m) {
			if err := json.Unmarshal(m, &g.matcher); err != nil {
				return nil, fmt.Errorf("group %d: matcher: %w", i, err)
			}
		}
		if h, ok := obj.get(hooksKey); ok {
			if g.entries, err = parseArray(h); err != nil {
				return nil, fmt.Errorf("group %d: hooks: %w", i, err)
			}
		}
		groups = append(groups, g)
	}
	return groups, nil
}

func marshalGroups(groups []group) (json.RawMessage, error) {
	items := make([]json.RawMessage, 0, len(groups))
	for _, g := range groups {
		entries, err := marshalArray(g.entries)
		if err != nil {
			return nil, err
		}
		if _, ok := g.obj.get(hooksKey); ok || len(g.entries) > 0 {
			g.obj.set(hooksKey, entries)
		}
		raw, err := g.obj.marshal()
		if err != nil {
			return nil, err
		}
		items = append(items, raw)
	}
	return marshalArray(items)
}

// withoutEntries copies a group's object with an empty entry list, keeping
// the matcher and any other keys.
func (o *object) withoutEntries() *object {
	out := &object{members: make([]member, 0, len(o.members))}
	for _, m := range o.members {
		if m.key == hooksKey {
			continue
		}
		out.members = append(out.members, m)
	}
	return out
}

func ownedOnly(entries []json.RawMessage) []json.RawMessage {
	out := entries[:0:0]
	for _, e := range entries {
		if !IsManaged(e) {
			out = append(out, e)
		}
	}
	return out
}

// IsManaged reports whether a hook entry carries the managed marker.
func IsManaged(entry json.RawMessage) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(entry, &probe); err != nil {
		return false
	}
	var managed bool
	if raw, ok := probe[ManagedKey]; ok {
		_ = json.Unmarshal(raw, &managed)
	}
	return managed
}

func stamp(entry json.RawMessage) (json.RawMessage, error) {
	if IsManaged(entry) {
		return entry, nil
	}
	obj, err := parseObject(entry)
	if err != nil {
		return nil, fmt.Errorf("hook entry: %w", err)
	}
	obj.set(ManagedKey, json.RawMessage("true"))
	return obj.marshal()
}

func everyEntryManaged(doc *object) (bool, error) {
	hooks, err := hooksOf(doc)
	if err != nil {
		return false, err
	}
	for _, ev := range hooks.members {
		groups, err := parseGroups(ev.value)
		if err != nil {
			return false, fmt.Errorf("event %s: %w", ev.key, err)
		}
		for _, g := range groups {
			for _, e := range g.entries {
				if !IsManaged(e) {
					return false, nil
				}
			}
		}
	}
	return true, nil
}

func render(doc *object) ([]byte, error) {
	compact, err := doc.marshal()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, compact, "", "  "); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

// Managed returns the managed entries of doc grouped by event, in order.
// It is used to report what a project currently receives.
func Managed(doc []byte) (map[string][]json.RawMessage, error) {
	obj, err := parse(doc, "document")
	if err != nil {
		return nil, err
	}
	hooks, err := hooksOf(obj)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]json.RawMessage)
	for _, ev := range hooks.members {
		groups, err := parseGroups(ev.value)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", ev.key, err)
		}
		for _, g := range groups {
			for _, e := range g.entries {
				if IsManaged(e) {
					out[ev.key] = append(out[ev.key], e)
				}
			}
		}
	}
	return out, nil
}

package dagobah

import "strings"

const backwardPrefix = "(-)"

// isBackward reports whether a predicate id carries the backward-traversal
// prefix.
func isBackward(predicateID string) bool {
	return strings.HasPrefix(predicateID, backwardPrefix)
}

// reverseDirection toggles the backward-traversal prefix on a single
// predicate id.
func reverseDirection(predicateID string) string {
	if isBackward(predicateID) {
		return strings.TrimPrefix(predicateID, backwardPrefix)
	}
	return backwardPrefix + predicateID
}

// reverseRelationExpr flips the traversal direction of a whole relation
// expression: any backward marker anywhere in the expression is dropped,
// otherwise the expression gains one.
func reverseRelationExpr(relationID string) string {
	if strings.Contains(relationID, backwardPrefix) {
		return strings.ReplaceAll(relationID, backwardPrefix, "")
	}
	return backwardPrefix + relationID
}

// bareID strips the backward prefix, leaving the raw predicate id.
func bareID(predicateID string) string {
	return strings.TrimPrefix(predicateID, backwardPrefix)
}

// joinPath builds a two-hop relation expression "p1::p2".
func joinPath(p1, p2 string) string {
	return p1 + "::" + p2
}

// isPath reports whether a relation expression is a two-hop path.
func isPath(relationID string) bool {
	return strings.Contains(relationID, "::")
}

// transitiveSet builds a lookup set from a configured list of transitive
// property ids.
func transitiveSet(properties []string) map[string]struct{} {
	set := make(map[string]struct{}, len(properties))
	for _, p := range properties {
		set[p] = struct{}{}
	}
	return set
}

// collapseTransitivePath collapses the two hops of a head-to-neighbor /
// neighbor-to-tail chain into the single predicate when both hops traverse
// the same predicate in the same direction and that predicate is
// transitive: the chain then implies the direct relation itself.
func collapseTransitivePath(p1, p2 string, transitive map[string]struct{}) (collapsed string, ok bool) {
	if p1 != p2 {
		return "", false
	}
	if _, isTransitive := transitive[bareID(p1)]; !isTransitive {
		return "", false
	}
	return p1, true
}

// expandRelationLabel renders a relation expression (a bare predicate, a
// "(-)"-prefixed predicate, or a "p1::p2" path) into a human label and a
// prefixed URI by substituting every valid component id.
func expandRelationLabel(relationID string, isValidID func(string) bool, label func(string) string, prefix func(string) string) (renderedLabel, renderedURI string) {
	renderedLabel = relationID
	renderedURI = relationID

	stripped := strings.NewReplacer(backwardPrefix, "", "(", "", ")", "").Replace(relationID)
	components := make(map[string]struct{})
	for _, token := range strings.Split(stripped, "::") {
		components[token] = struct{}{}
	}
	for id := range components {
		if !isValidID(id) {
			continue
		}
		renderedURI = strings.ReplaceAll(renderedURI, id, prefix(id))
		renderedLabel = strings.ReplaceAll(renderedLabel, id, label(id))
	}
	return renderedLabel, renderedURI
}

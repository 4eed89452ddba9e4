package comment

import (
	"cmp"
	"slices"
	"strings"

	"social-app-go/internal/domain/reaction"
)

const shortBodyWords = 20

type Node struct {
	Comment                Comment
	ShortBody              string
	NumberOfComments       int
	NumberOfReactions      int64
	CurrentUserHasReaction bool
	Children               []*Node
}

// BuildTree nests the comments of one post under their parents. Siblings keep id order,
// NumberOfComments counts all descendants, and a comment whose parent is missing is
// dropped together with its replies.
func BuildTree(comments []Comment, summaries map[uint]reaction.Summary) []*Node {
	children := make(map[uint][]Comment, len(comments))
	for _, c := range comments {
		var parent uint
		if c.ParentID != nil {
			parent = *c.ParentID
		}
		children[parent] = append(children[parent], c)
	}
	for _, siblings := range children {
		slices.SortFunc(siblings, func(a, b Comment) int {
			return cmp.Compare(a.ID, b.ID)
		})
	}

	return buildLevel(children, 0, summaries)
}

func buildLevel(children map[uint][]Comment, parentID uint, summaries map[uint]reaction.Summary) []*Node {
	siblings := children[parentID]
	nodes := make([]*Node, 0, len(siblings))
	for _, c := range siblings {
		summary := summaries[c.ID]
		node := &Node{
			Comment:                c,
			ShortBody:              ShortBody(c.Body),
			NumberOfReactions:      summary.NumberOfReactions,
			CurrentUserHasReaction: summary.CurrentUserHasReaction,
			Children:               buildLevel(children, c.ID, summaries),
		}
		for _, child := range node.Children {
			node.NumberOfComments += child.NumberOfComments + 1
		}
		nodes = append(nodes, node)
	}
	return nodes
}

// CountNodes returns how many comments the tree holds.
func CountNodes(nodes []*Node) int {
	total := 0
	for _, n := range nodes {
		total += n.NumberOfComments + 1
	}
	return total
}

// ShortBody keeps the first words of body, marking a cut with an ellipsis.
func ShortBody(body string) string {
	words := strings.Fields(body)
	if len(words) <= shortBodyWords {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:shortBodyWords], " ") + "..."
}

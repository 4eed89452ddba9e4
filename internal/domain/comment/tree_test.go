package comment

import (
	"math/rand"
	"strings"
	"testing"

	"social-app-go/internal/domain/reaction"
)

func ptr(id uint) *uint {
	return &id
}

func ids(nodes []*Node) []uint {
	result := make([]uint, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, n.Comment.ID)
	}
	return result
}

func equalIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBuildTreeNestsReplies(t *testing.T) {
	comments := []Comment{
		{ID: 4, ParentID: ptr(2)},
		{ID: 3, ParentID: ptr(1)},
		{ID: 1},
		{ID: 2, ParentID: ptr(1)},
	}

	roots := BuildTree(comments, nil)
	if !equalIDs(ids(roots), []uint{1}) {
		t.Fatalf("expected single root 1, got %v", ids(roots))
	}
	node1 := roots[0]
	if !equalIDs(ids(node1.Children), []uint{2, 3}) {
		t.Fatalf("expected children [2 3], got %v", ids(node1.Children))
	}
	node2 := node1.Children[0]
	if !equalIDs(ids(node2.Children), []uint{4}) {
		t.Fatalf("expected child [4], got %v", ids(node2.Children))
	}
	if node1.NumberOfComments != 3 {
		t.Fatalf("expected node 1 to count 3 descendants, got %d", node1.NumberOfComments)
	}
	if node2.NumberOfComments != 1 {
		t.Fatalf("expected node 2 to count 1 descendant, got %d", node2.NumberOfComments)
	}
	if node1.Children[1].NumberOfComments != 0 {
		t.Fatalf("expected leaf to count 0")
	}
	if CountNodes(roots) != 4 {
		t.Fatalf("expected 4 nodes, got %d", CountNodes(roots))
	}
}

func TestBuildTreeDropsDanglingParents(t *testing.T) {
	comments := []Comment{
		{ID: 1},
		{ID: 2, ParentID: ptr(1)},
		{ID: 5, ParentID: ptr(42)},
		{ID: 6, ParentID: ptr(5)},
		{ID: 7, ParentID: ptr(7)},
	}

	roots := BuildTree(comments, nil)
	seen := map[uint]int{}
	var walk func([]*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			seen[n.Comment.ID]++
			walk(n.Children)
		}
	}
	walk(roots)

	if seen[1] != 1 || seen[2] != 1 {
		t.Fatalf("expected reachable comments exactly once, got %v", seen)
	}
	for _, dropped := range []uint{5, 6, 7} {
		if seen[dropped] != 0 {
			t.Fatalf("expected comment %d dropped, got %v", dropped, seen)
		}
	}
	if CountNodes(roots) != 2 {
		t.Fatalf("expected 2 nodes, got %d", CountNodes(roots))
	}
}

func TestBuildTreeCountsEveryReachableComment(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	comments := make([]Comment, 0, 200)
	for id := uint(1); id <= 200; id++ {
		c := Comment{ID: id}
		if id > 1 && rng.Intn(4) != 0 {
			c.ParentID = ptr(uint(rng.Intn(int(id-1))) + 1)
		}
		comments = append(comments, c)
	}
	rng.Shuffle(len(comments), func(i, j int) { comments[i], comments[j] = comments[j], comments[i] })

	roots := BuildTree(comments, nil)
	if CountNodes(roots) != 200 {
		t.Fatalf("expected every comment in the tree, got %d", CountNodes(roots))
	}

	var check func(n *Node) int
	check = func(n *Node) int {
		total := 0
		for i, child := range n.Children {
			if i > 0 && n.Children[i-1].Comment.ID >= child.Comment.ID {
				t.Fatalf("children of %d out of order", n.Comment.ID)
			}
			total += 1 + check(child)
		}
		if total != n.NumberOfComments {
			t.Fatalf("node %d: expected %d descendants, got %d", n.Comment.ID, total, n.NumberOfComments)
		}
		return total
	}
	for _, root := range roots {
		check(root)
	}
}

func TestBuildTreeReactionFlags(t *testing.T) {
	comments := []Comment{{ID: 1}, {ID: 2, ParentID: ptr(1)}}
	summaries := map[uint]reaction.Summary{
		1: {NumberOfReactions: 4, CurrentUserHasReaction: true},
		2: {NumberOfReactions: 1},
	}

	roots := BuildTree(comments, summaries)
	if roots[0].NumberOfReactions != 4 || !roots[0].CurrentUserHasReaction {
		t.Fatalf("unexpected root reactions %+v", roots[0])
	}
	child := roots[0].Children[0]
	if child.NumberOfReactions != 1 || child.CurrentUserHasReaction {
		t.Fatalf("unexpected child reactions %+v", child)
	}
}

func TestShortBody(t *testing.T) {
	if got := ShortBody("  hello   world "); got != "hello world" {
		t.Fatalf("unexpected short body %q", got)
	}
	long := strings.Repeat("word ", 25)
	got := ShortBody(long)
	if !strings.HasSuffix(got, "...") || len(strings.Fields(strings.TrimSuffix(got, "..."))) != 20 {
		t.Fatalf("expected 20 words and an ellipsis, got %q", got)
	}
}

// Package commenttree собирает лес ответов из плоского списка комментариев.
package commenttree

import "github.com/magabrotheeeer/blog-platform/internal/models"

// Build строит лес по ссылкам на родителя за два прохода.
//
// Родитель учитывается, только если он встречается во входе раньше ребёнка.
// Ссылки на неизвестный, собственный или более поздний комментарий делают узел корнем,
// поэтому циклы непредставимы. Порядок детей и корней совпадает с порядком входа.
func Build(comments []models.Comment) []*models.CommentNode {
	nodes := make([]*models.CommentNode, len(comments))
	index := make(map[string]int, len(comments))
	parent := make([]int, len(comments))

	for i := range comments {
		nodes[i] = &models.CommentNode{Comment: comments[i], Replies: []*models.CommentNode{}}
		parent[i] = -1
		if p := comments[i].ParentID; p != nil {
			if j, ok := index[*p]; ok {
				parent[i] = j
			}
		}
		if _, dup := index[comments[i].ID]; !dup {
			index[comments[i].ID] = i
		}
	}

	roots := make([]*models.CommentNode, 0)
	for i, n := range nodes {
		if parent[i] < 0 {
			roots = append(roots, n)
			continue
		}
		p := nodes[parent[i]]
		p.Replies = append(p.Replies, n)
	}
	return roots
}

// Count возвращает число узлов в лесу.
func Count(forest []*models.CommentNode) int {
	n := 0
	stack := append([]*models.CommentNode(nil), forest...)
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n++
		stack = append(stack, top.Replies...)
	}
	return n
}

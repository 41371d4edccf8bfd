package container

import (
	"fmt"
	"log"
)

// ListNode 双向链表中的节点
// 功能：表示双向链表中的一个节点
// 说明：节点记录所属链表，同一节点同一时刻只能属于一个链表
type ListNode[T any] struct {
	parent     *List[T]     // 所属链表
	prev, next *ListNode[T] // 前驱和后继节点
	Value      T            // 主要值
}

// NewListNode 创建不属于任何链表的节点
func NewListNode[T any](value T) *ListNode[T] {
	return &ListNode[T]{Value: value}
}

// String 获取节点的字符串表示
func (n *ListNode[T]) String() string {
	return fmt.Sprintf("Node{Value:%+v}", n.Value)
}

// Next 获取节点的下一个节点
// 返回：后继节点指针，如果是最后一个节点则返回nil
func (n *ListNode[T]) Next() *ListNode[T] {
	return n.next
}

// Parent 获取节点所在的链表
// 返回：链表指针，不在任何链表中时返回nil
func (n *ListNode[T]) Parent() *List[T] {
	return n.parent
}

// InsertAfter 在节点后插入新节点
// 功能：在当前节点之后插入一个新节点
// 参数：add-要插入的新节点
// 算法说明：
// 1. 检查新节点是否已经在其他链表中，是则panic
// 2. 设置新节点的父链表和前后指针
// 3. 更新当前节点和后继节点的指针
// 4. 如果新节点是最后一个节点，更新链表尾指针
// 5. 增加链表长度计数
func (n *ListNode[T]) InsertAfter(add *ListNode[T]) {
	if add.parent != nil {
		log.Panicf("container: insert node already in list %v", add.parent)
	}
	add.parent = n.parent
	add.prev = n
	add.next = n.next
	n.next = add
	if add.next != nil {
		add.next.prev = add
	} else {
		add.parent.tail = add
	}
	n.parent.length++
}

// List 双向链表实现的FIFO队列
// 功能：实现一个通用的先进先出队列，支持O(1)的入队、出队与删除
// 说明：入队时检查节点归属，保证一个元素不会同时出现在两个队列中
type List[T any] struct {
	ID         string       // 链表标识符
	head, tail *ListNode[T] // 头尾节点指针
	length     int          // 链表长度
}

// NewList 创建带标识符的空链表
func NewList[T any](id string) *List[T] {
	return &List[T]{ID: id}
}

// String 获取链表的字符串表示
func (l *List[T]) String() string {
	return fmt.Sprintf("List{ID:%v}", l.ID)
}

// Values 获取链表中所有节点的值
// 功能：按从头到尾的顺序返回所有值
func (l *List[T]) Values() []T {
	values := make([]T, l.length)
	for i, node := 0, l.head; node != nil; i, node = i+1, node.next {
		values[i] = node.Value
	}
	return values
}

// Len 获取链表长度
func (l *List[T]) Len() int {
	return l.length
}

// PushBack 向链表尾部插入节点
// 功能：入队
// 参数：add-要插入的新节点
// 说明：节点已在某个链表中时panic
func (l *List[T]) PushBack(add *ListNode[T]) {
	if add.parent != nil {
		log.Panicf("container: push back node already in list %v", add.parent)
	}
	add.next = nil
	add.prev = nil
	if l.tail == nil {
		add.parent = l
		l.head = add
		l.tail = add
		l.length++
	} else {
		// length++和add.parent在InsertAfter中处理
		l.tail.InsertAfter(add)
	}
}

// Remove 从链表中移除节点
// 功能：从链表中删除指定的节点
// 参数：node-要删除的节点
// 算法说明：
// 1. 检查节点是否属于当前链表，不属于则panic
// 2. 更新前驱和后继节点的指针
// 3. 如果删除的是头节点或尾节点，更新头尾指针
// 4. 清空被删除节点的指针与归属
// 5. 减少链表长度计数
func (l *List[T]) Remove(node *ListNode[T]) {
	if node.parent != l {
		log.Panicf("container: remove node from wrong list %v", l)
	}
	if node.prev != nil {
		node.prev.next = node.next
	} else {
		l.head = node.next
	}
	if node.next != nil {
		node.next.prev = node.prev
	} else {
		l.tail = node.prev
	}
	node.prev = nil
	node.next = nil
	node.parent = nil
	l.length--
}

// First 获取链表头部节点
// 返回：头节点指针，如果链表为空则返回nil
func (l *List[T]) First() *ListNode[T] {
	return l.head
}

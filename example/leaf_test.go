package example

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLeafNodeRoundTrip(t *testing.T) {
	node := LeafNode{
		Header: LeafHeader{
			NumKeys:  3,
			Flags:    0x1234,
			NextPage: 42,
			PrevPage: 0,
			Reserved: 0,
		},
		Elements: []LeafElement{
			{Key: 100, Offset: 1000},
			{Key: 200, Offset: 2000},
			{Key: 300, Offset: 3000},
		},
		Checksum: 0xDEADBEEFCAFEBABE,
	}

	buf := node.EncodeBE()
	require.Equal(t, 16+3*8+8, len(buf))

	decoded, n, err := DecodeBELeafNode(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, node, decoded)
}

func TestLeafNodeRejectsShortBuffer(t *testing.T) {
	node := LeafNode{
		Header:   LeafHeader{NumKeys: 1},
		Elements: []LeafElement{{Key: 1, Offset: 2}},
		Checksum: 9,
	}
	buf := node.EncodeBE()

	_, _, err := DecodeBELeafNode(buf[:len(buf)-2])
	require.Error(t, err)
}

func TestLeafElementFixedEncoder(t *testing.T) {
	elem := LeafElement{Key: 7, Offset: 99}
	fixed := elem.EncodeBEFixed()
	require.Equal(t, elem.EncodeBE(), fixed[:])
}

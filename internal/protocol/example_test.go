package protocol_test

import (
	"fmt"

	"github.com/danmuck/sbdp/internal/protocol"
)

func Example() {
	inner, _ := protocol.NewMessage(
		protocol.Uint64("uid", 9876543210),
		protocol.String("note", "nested payload"),
	)
	outer := &protocol.Message{}
	if err := outer.SetNested("payload", inner); err != nil {
		fmt.Println(err)
		return
	}

	block, err := protocol.Encode(outer)
	if err != nil {
		fmt.Println(err)
		return
	}

	decoded, _ := protocol.Decode(block)
	nested, _ := decoded.Nested("payload")
	uid, _ := nested.Uint64("uid")
	note, _ := nested.String("note")
	fmt.Println(uid, note)
	// Output: 9876543210 nested payload
}

func ExampleEncodeScalar() {
	b, _ := protocol.EncodeScalar(protocol.TypeString, "hi")
	fmt.Printf("% x\n", b)
	// Output: 00 00 00 02 68 69
}

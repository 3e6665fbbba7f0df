package codec_test

import (
	"fmt"
	"log"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/ssargent/datagen/pkg/codec"
)

// ExampleBuffer_exactSize demonstrates sizing a buffer before writing to it
func ExampleBuffer_exactSize() {
	name := "Shop"

	size, err := codec.StringSize(name)
	if err != nil {
		log.Fatal(err)
	}
	size += codec.Uint32Size + codec.Uint8Size

	buf := codec.NewBuffer(size)
	if err := buf.WriteString(name); err != nil {
		log.Fatal(err)
	}
	if err := buf.WriteUint32(5411); err != nil {
		log.Fatal(err)
	}
	if err := buf.WriteUint8(7); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Encoded %d bytes: %x\n", buf.Len(), buf.Bytes())
	fmt.Printf("Full: %t\n", buf.Full())

	// Output:
	// Encoded 10 bytes: 0453686f702315000007
	// Full: true
}

// ExampleReader demonstrates reading fields back in write order
func ExampleReader() {
	r := codec.NewReader([]byte{2, 'A', 'l', 1, 'B'})

	first, _ := r.ReadString()
	last, _ := r.ReadString()

	fmt.Printf("%s %s\n", first, last)
	fmt.Printf("Finish: %v\n", r.Finish())

	// Output:
	// Al B
	// Finish: <nil>
}

// ExampleStringSize_overflow demonstrates the length prefix ceiling
func ExampleStringSize_overflow() {
	_, err := codec.StringSize(strings.Repeat("x", 256))

	fmt.Println(errors.Is(err, codec.ErrSizeOverflow))

	// Output:
	// true
}

// Package serialization provides the native .mlp format for saving and loading networks.
//
// The .mlp format stores an ordered list of named float64 matrices:
//
//	Format Structure:
//	  [0x00 4 bytes: Magic "MLPN"]
//	  [0x04 4 bytes: Version (uint32 LE)]
//	  [0x08 4 bytes: Flags (uint32 LE)]
//	  [0x0C 4 bytes: Reserved]
//	  [0x10 8 bytes: Header Size (uint64 LE)]
//	  [0x18 8 bytes: Data Size (uint64 LE)]
//	  [0x20 32 bytes: SHA-256 of the data section]
//	  [Header: JSON metadata, tensor names, shapes and offsets]
//	  [Tensor data: float64 LE, row-major, 64-byte aligned]
//
// Example usage:
//
//	// Save
//	writer, err := serialization.NewWriter("net.mlp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = writer.Write(tensors, serialization.Header{ModelType: "Network"})
//	writer.Close()
//
//	// Load
//	reader, err := serialization.NewReader("net.mlp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	tensors, err := reader.Tensors()
package serialization

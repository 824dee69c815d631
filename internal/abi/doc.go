// Package abi implements the Contract ABI argument encoding: typed values
// in, the hex word stream of a call's head and tail regions out.
//
// Types are described by Param (a type string plus tuple components) and
// resolved through a Classifier into a Type. Values are the closed Value
// variant and are checked against the declared type as they are encoded:
//
//	out, err := abi.EncodeArguments(
//		[]abi.Param{{Type: "address"}, {Type: "uint256[]"}},
//		[]abi.Value{abi.Address("0x..."), abi.Array(abi.Int64(1), abi.Int64(2))},
//	)
//
// Every sequence (the argument list, a tuple, the elements of an array) is
// encoded in its own frame, and offsets written into a head count bytes from
// the start of that frame.
package abi

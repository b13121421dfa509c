package signer

import (
	"encoding/binary"

	"golang.org/x/crypto/sha3"
)

// The exchange signs phantom agents under a fixed EIP-712 domain.
// chainId 1337 is pinned by the protocol regardless of target network;
// mainnet vs testnet travels in the agent source instead.
const (
	domainName    = "Exchange"
	domainVersion = "1"
	domainChainID = 1337

	sourceMainnet = "a"
	sourceTestnet = "b"
)

var (
	domainTypeHash = keccak256([]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"))
	agentTypeHash  = keccak256([]byte("Agent(string source,bytes32 connectionId)"))

	// Fixed for the life of the process: every input is a constant.
	exchangeDomainSeparator = keccak256(
		domainTypeHash,
		keccak256([]byte(domainName)),
		keccak256([]byte(domainVersion)),
		padLeft32(binary.BigEndian.AppendUint64(nil, domainChainID)),
		padLeft32(nil),
	)
)

// agentDigest builds the EIP-712 signing digest for the phantom agent
// binding one connection id to one network.
func agentDigest(source string, connectionID []byte) []byte {
	structHash := keccak256(
		agentTypeHash,
		keccak256([]byte(source)),
		connectionID,
	)
	return keccak256([]byte{0x19, 0x01}, exchangeDomainSeparator, structHash)
}

func agentSource(isMainnet bool) string {
	if isMainnet {
		return sourceMainnet
	}
	return sourceTestnet
}

func keccak256(chunks ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, c := range chunks {
		h.Write(c)
	}
	return h.Sum(nil)
}

func padLeft32(b []byte) []byte {
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

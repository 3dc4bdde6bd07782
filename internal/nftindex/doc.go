// Package nftindex looks up minted tokens through an Alchemy-compatible NFT
// indexing API: the token id carrying a given serial number, and the
// collection's tokens held by an owner.
package nftindex

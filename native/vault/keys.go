package vault

import "poolvault/crypto"

var (
	poolCountKey          = []byte("vault/pools/count")
	poolRecordPrefix      = []byte("vault/pool/")
	assetListPrefix       = []byte("vault/assets/")
	balanceRecordPrefix   = []byte("vault/bal/")
	twoTokenPairPrefix    = []byte("vault/tt/pair/")
	twoTokenHeldPrefix    = []byte("vault/tt/held/")
	twoTokenManagedPrefix = []byte("vault/tt/managed/")
	custodyPrefix         = []byte("vault/custody/")
	assetManagerPrefix    = []byte("vault/assetmgr/")
	accruedFeePrefix      = []byte("vault/fees/accrued/")
	feeRatesKey           = []byte("vault/fees/rates")
	relayerPrefix         = []byte("vault/relayer/approval/")
	oneTimeGrantPrefix    = []byte("vault/relayer/once/")
)

func joinKey(parts ...[]byte) []byte {
	size := 0
	for _, part := range parts {
		size += len(part) + 1
	}
	buf := make([]byte, 0, size)
	for i, part := range parts {
		if i > 0 {
			buf = append(buf, '/')
		}
		buf = append(buf, part...)
	}
	return buf
}

func poolKey(id PoolID) []byte {
	return joinKey(poolRecordPrefix, id[:])
}

func assetListKey(id PoolID) []byte {
	return joinKey(assetListPrefix, id[:])
}

func balanceKey(id PoolID, asset AssetID) []byte {
	return joinKey(balanceRecordPrefix, id[:], []byte(asset))
}

func twoTokenPairKey(id PoolID) []byte {
	return joinKey(twoTokenPairPrefix, id[:])
}

func twoTokenHeldKey(id PoolID) []byte {
	return joinKey(twoTokenHeldPrefix, id[:])
}

func twoTokenManagedKey(id PoolID) []byte {
	return joinKey(twoTokenManagedPrefix, id[:])
}

func custodyKey(account crypto.Address, asset AssetID) []byte {
	return joinKey(custodyPrefix, account.Bytes(), []byte(asset))
}

func assetManagerKey(id PoolID, asset AssetID) []byte {
	return joinKey(assetManagerPrefix, id[:], []byte(asset))
}

func accruedFeeKey(asset AssetID) []byte {
	return joinKey(accruedFeePrefix, []byte(asset))
}

func relayerApprovalKey(account, relayer crypto.Address) []byte {
	return joinKey(relayerPrefix, account.Bytes(), relayer.Bytes())
}

func oneTimeGrantKey(account, relayer crypto.Address) []byte {
	return joinKey(oneTimeGrantPrefix, account.Bytes(), relayer.Bytes())
}

package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is an interface of Events
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint32) Events
	CommitEvents(height uint32) error
}

type eventsStore struct {
	cdc *amino.Codec
	sync.RWMutex
	db        db.DB
	pending   Events
	idAddress map[uint32][20]byte
	addressID map[[20]byte]uint32
}

// NewEventsStore creates new events store in given DB
func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterInterface((*compactEvent)(nil), nil)
	codec.RegisterConcrete(&registerValidatorCandidate{}, "registerValidatorCandidate", nil)
	codec.RegisterConcrete(&setOperator{}, "setOperator", nil)
	codec.RegisterConcrete(&addStake{}, "addStake", nil)
	codec.RegisterConcrete(&unlockStake{}, "unlockStake", nil)
	codec.RegisterConcrete(&withdrawStake{}, "withdrawStake", nil)
	codec.RegisterConcrete(&rotateConsensusKey{}, "rotateConsensusKey", nil)
	codec.RegisterConcrete(&updateNetworkAddresses{}, "updateNetworkAddresses", nil)
	codec.RegisterConcrete(&increaseLockup{}, "increaseLockup", nil)
	codec.RegisterConcrete(&joinValidatorSet{}, "joinValidatorSet", nil)
	codec.RegisterConcrete(&leaveValidatorSet{}, "leaveValidatorSet", nil)
	codec.RegisterConcrete(&distributeRewards{}, "distributeRewards", nil)

	return &eventsStore{
		cdc:       codec,
		db:        db,
		idAddress: make(map[uint32][20]byte),
		addressID: make(map[[20]byte]uint32),
	}
}

func (store *eventsStore) cacheAddress(id uint32, address [20]byte) {
	store.idAddress[id] = address
	store.addressID[address] = id
}

func (store *eventsStore) AddEvent(event Event) {
	store.Lock()
	defer store.Unlock()

	store.pending = append(store.pending, event)
}

func (store *eventsStore) LoadEvents(height uint32) Events {
	store.loadCache()

	store.RLock()
	defer store.RUnlock()

	bytes, err := store.db.Get(uint32ToBytes(height))
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var items []compactEvent
	if err := store.cdc.UnmarshalBinaryBare(bytes, &items); err != nil {
		panic(err)
	}

	resultEvents := make(Events, 0, len(items))
	for _, item := range items {
		resultEvents = append(resultEvents, item.compile(store.idAddress[item.addressID()]))
	}

	return resultEvents
}

func (store *eventsStore) CommitEvents(height uint32) error {
	store.loadCache()

	store.Lock()
	defer store.Unlock()

	var data []compactEvent
	for _, item := range store.pending {
		data = append(data, item.convert(store.saveAddress(item.address())))
	}

	bytes, err := store.cdc.MarshalBinaryBare(data)
	if err != nil {
		return err
	}
	if bytes == nil {
		// an empty batch encodes to nil, which the db refuses to store
		bytes = []byte{}
	}

	if err := store.db.Set(uint32ToBytes(height), bytes); err != nil {
		return err
	}

	store.pending = Events{}
	return nil
}

func (store *eventsStore) loadCache() {
	store.Lock()
	if len(store.idAddress) == 0 {
		store.loadAddresses()
	}
	store.Unlock()
}

const addressPrefix = "address"
const addressesCountKey = "addresses"

func (store *eventsStore) saveAddress(address [20]byte) uint32 {
	if id, ok := store.addressID[address]; ok {
		return id
	}

	id := uint32(len(store.addressID))
	store.cacheAddress(id, address)

	if err := store.db.Set(append([]byte(addressPrefix), uint32ToBytes(id)...), address[:]); err != nil {
		panic(err)
	}
	if err := store.db.Set([]byte(addressesCountKey), uint32ToBytes(uint32(len(store.addressID)))); err != nil {
		panic(err)
	}
	return id
}

func (store *eventsStore) loadAddresses() {
	count, err := store.db.Get([]byte(addressesCountKey))
	if err != nil {
		panic(err)
	}
	if len(count) > 0 {
		for id := uint32(0); id < binary.BigEndian.Uint32(count); id++ {
			address, _ := store.db.Get(append([]byte(addressPrefix), uint32ToBytes(id)...))
			var key [20]byte
			copy(key[:], address)
			store.cacheAddress(id, key)
		}
	}
}

func uint32ToBytes(height uint32) []byte {
	var h = make([]byte, 4)
	binary.BigEndian.PutUint32(h, height)
	return h
}

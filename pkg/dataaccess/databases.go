package dataaccess

const mongoDatabase = "warden"
